package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/dashboard-backend/infra/cloudrun"
	"github.com/GregMSThompson/dashboard-backend/infra/docker"
	"github.com/GregMSThompson/dashboard-backend/infra/firestore"
	"github.com/GregMSThompson/dashboard-backend/infra/identity"
	"github.com/GregMSThompson/dashboard-backend/infra/provider"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// identity platform backs the firebase sign-in used by POST /session
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// signed-in dashboards live in dashboards/{uid}
		err = firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		_, err = cloudrun.SetupCloudRun(ctx, prov, ident, repo)
		if err != nil {
			return err
		}

		return nil
	})
}
