package domain

import (
	"context"

	"bottlescan/internal/core/scanview"
)

// ServicePort defines the scan workflows exposed over http
type ServicePort interface {
	Detect(ctx context.Context, sessionID string, in DetectInput) (DetectResult, error)
	List(ctx context.Context, sessionID string, q FilterQuery) (ScanList, error)
	Map(ctx context.Context, sessionID string, q MapQuery) (scanview.View, error)
	GeoJSON(ctx context.Context, sessionID string, q MapQuery) ([]byte, error)
	Cluster(ctx context.Context, sessionID, token string, q FilterQuery) (ClusterDetail, error)
	CenterOnMe(ctx context.Context, sessionID string) (scanview.Center, error)
	ExportCSV(ctx context.Context, sessionID string, q FilterQuery) ([]byte, error)
	ExportJSON(ctx context.Context, sessionID string, q FilterQuery) ([]byte, error)
}
