package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/dashboard-backend/internal/errs"
	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

// dashboardStore keeps one dashboard document per user at dashboards/{uid}.
type dashboardStore struct {
	client *firestore.Client
}

func NewDashboardStore(client *firestore.Client) *dashboardStore {
	return &dashboardStore{client: client}
}

func (s *dashboardStore) doc(uid string) *firestore.DocumentRef {
	return s.client.Collection("dashboards").Doc(uid)
}

func (s *dashboardStore) Get(ctx context.Context, uid string) (*models.Dashboard, error) {
	snap, err := s.doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("dashboard not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get dashboard", err)
	}
	var d models.Dashboard
	if err := snap.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse dashboard data", err)
	}

	// DataTo leaves a stored empty array as a nil slice; callers treat nil as absent.
	data := snap.Data()
	if d.Widgets == nil && data["widgets"] != nil {
		d.Widgets = []models.WidgetConfig{}
	}
	if d.Layout == nil && data["layout"] != nil {
		d.Layout = []models.LayoutEntry{}
	}
	return &d, nil
}

// Put overwrites the whole document; there is no merge and no version check.
func (s *dashboardStore) Put(ctx context.Context, uid string, d *models.Dashboard) error {
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now()
	}
	_, err := s.doc(uid).Set(ctx, d)
	if err != nil {
		return errs.NewDatabaseError("write", "failed to save dashboard", err)
	}
	return nil
}
