package domain

import "time"

// Post carries the minimum surface the ignite engine needs: an author,
// a college scope and the denormalized ignite counter.
type Post struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AuthorID    uint      `json:"author_id"`
	CollegeID   uint      `json:"college_id"`
	IgniteCount int       `json:"ignite_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostIgnite records "giver spent 1 point to boost receiver's post".
// The row's presence is the toggle state, always consistent with exactly
// one compensating pair of point transactions.
type PostIgnite struct {
	ID         uint      `json:"id"`
	PostID     uint      `json:"post_id"`
	GiverID    uint      `json:"giver_id"`
	ReceiverID uint      `json:"receiver_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type IgniteAction string

const (
	IgniteAdded   IgniteAction = "ignited"
	IgniteRemoved IgniteAction = "removed"
)

// IgniteResult describes the outcome of one toggle call.
type IgniteResult struct {
	Action            IgniteAction `json:"action"`
	IgniteCount       int          `json:"ignite_count"`
	PointsTransferred int          `json:"points_transferred"`
}
