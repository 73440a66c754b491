package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/GregMSThompson/dashboard-backend/internal/config"
	"github.com/GregMSThompson/dashboard-backend/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	LocalDB   *sql.DB
	Tracer    *sdktrace.TracerProvider
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	bs.Tracer, err = InitTracing(applicationCtx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		return bs, err
	}
	bs.LocalDB, err = InitLocalDB(cfg.LocalDBPath)
	if err != nil {
		return bs, err
	}
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx)
	if err != nil {
		return bs, err
	}

	return bs, nil
}

// Close releases every client Run opened. Safe on a partially filled Bootstrap.
func (bs *Bootstrap) Close(ctx context.Context) error {
	var errList []error
	if bs.Firestore != nil {
		errList = append(errList, bs.Firestore.Close())
	}
	if bs.LocalDB != nil {
		errList = append(errList, bs.LocalDB.Close())
	}
	if bs.Tracer != nil {
		errList = append(errList, bs.Tracer.Shutdown(ctx))
	}
	return errors.Join(errList...)
}
