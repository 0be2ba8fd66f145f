package domain

type ReconcileReport struct {
	Wishes         int   `json:"wishes"`
	Recounted      int   `json:"recounted"`
	OrphansRemoved int64 `json:"orphans_removed"`
}
