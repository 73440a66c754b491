package firestore

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firestore"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// SetupFirestore enables the API and creates the default database that holds
// one dashboards/{uid} document per signed-in user.
func SetupFirestore(ctx *pulumi.Context, prov *gcp.Provider) error {
	svc, err := projects.NewService(ctx, "firestore", &projects.ServiceArgs{
		Service: pulumi.String("firestore.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return err
	}

	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	location := config.New(ctx, "firestore").Get("location")
	if location == "" {
		location = gcpCfg.Require("region")
	}

	// the API client opens "(default)"
	_, err = firestore.NewDatabase(ctx, "dashboardDatabase", &firestore.DatabaseArgs{
		Name:                  pulumi.String("(default)"),
		Project:               pulumi.String(projectID),
		LocationId:            pulumi.String(location),
		Type:                  pulumi.String("FIRESTORE_NATIVE"),
		DeleteProtectionState: pulumi.String("DELETE_PROTECTION_ENABLED"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn([]pulumi.Resource{svc}),
	)
	return err
}
