package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrPostNotFound         = errors.New("post not found")
	ErrSelfIgniteNotAllowed = errors.New("cannot ignite your own post")
	ErrIgnitePointSpent     = errors.New("ignite point already spent by the author")
)

type Post struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Content     string `gorm:"not null"`
	AuthorID    uint   `gorm:"index;not null"`
	CollegeID   uint   `gorm:"index;not null"`
	IgniteCount int    `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostIgnite's presence is the toggle state; unique per post and giver.
type PostIgnite struct {
	ID         uint `gorm:"primaryKey"`
	PostID     uint `gorm:"index:idx_post_giver,unique;not null"`
	GiverID    uint `gorm:"index:idx_post_giver,unique;not null"`
	ReceiverID uint `gorm:"not null"`
	CreatedAt  time.Time
}

type EngagementDAO struct {
	db     *gorm.DB
	ledger *LedgerDAO
}

func NewEngagementDAO(db *gorm.DB, ledger *LedgerDAO) *EngagementDAO {
	return &EngagementDAO{
		db:     db,
		ledger: ledger,
	}
}

func (d *EngagementDAO) InsertPost(ctx context.Context, post Post) (Post, error) {
	result := d.db.WithContext(ctx).Create(&post)
	if result.Error != nil {
		return Post{}, result.Error
	}

	return post, nil
}

func (d *EngagementDAO) FindPostByID(ctx context.Context, postID, collegeID uint) (Post, error) {
	var post Post

	result := d.db.WithContext(ctx).Where("id = ? AND college_id = ?", postID, collegeID).Take(&post)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Post{}, ErrPostNotFound
		}
		return Post{}, result.Error
	}

	return post, nil
}

// IgniteOutcome reports one toggle: "ignited" or "removed", the new counter
// and the signed point movement seen by the giver.
type IgniteOutcome struct {
	Action            string
	IgniteCount       int
	PointsTransferred int
}

// ToggleIgnite moves exactly one point between giver and author, flips the
// PostIgnite row and the denormalized counter, and writes the compensating
// ledger pair, all in one transaction. Toggling twice restores every
// balance and counter.
func (d *EngagementDAO) ToggleIgnite(ctx context.Context, postID, giverID, collegeID uint) (IgniteOutcome, error) {
	var outcome IgniteOutcome

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post Post
		err := tx.Where("id = ? AND college_id = ?", postID, collegeID).Take(&post).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if post.AuthorID == giverID {
			return ErrSelfIgniteNotAllowed
		}

		var existing PostIgnite
		err = tx.Where("post_id = ? AND giver_id = ?", postID, giverID).Take(&existing).Error
		switch {
		case err == nil:
			return d.removeIgnite(tx, post, existing, giverID, collegeID, &outcome)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return d.addIgnite(tx, post, giverID, collegeID, &outcome)
		default:
			return err
		}
	})
	if err != nil {
		return IgniteOutcome{}, err
	}

	return outcome, nil
}

func (d *EngagementDAO) addIgnite(tx *gorm.DB, post Post, giverID, collegeID uint, outcome *IgniteOutcome) error {
	_, err := d.ledger.Append(tx, PointTransaction{
		UserID:        giverID,
		Type:          "SPENT",
		Points:        -1,
		Description:   fmt.Sprintf("Ignited post '%s'", truncate(post.Title, 50)),
		ReferenceType: "ignite",
		ReferenceID:   post.ID,
		CollegeID:     collegeID,
	})
	if err != nil {
		return err
	}

	_, err = d.ledger.Append(tx, PointTransaction{
		UserID:        post.AuthorID,
		Type:          "EARNED",
		Points:        1,
		Description:   fmt.Sprintf("Received ignite on your post '%s'", truncate(post.Title, 50)),
		ReferenceType: "ignite",
		ReferenceID:   post.ID,
		CollegeID:     collegeID,
	})
	if err != nil {
		return err
	}

	ignite := PostIgnite{
		PostID:     post.ID,
		GiverID:    giverID,
		ReceiverID: post.AuthorID,
	}
	if err = tx.Create(&ignite).Error; err != nil {
		return err
	}

	err = tx.Model(&Post{}).Where("id = ?", post.ID).
		Update("ignite_count", gorm.Expr("ignite_count + 1")).Error
	if err != nil {
		return err
	}

	// Re-read the counter inside the transaction: the in-memory post may be
	// stale when several ignites land on the same post at once.
	var updated Post
	if err = tx.Take(&updated, post.ID).Error; err != nil {
		return err
	}

	outcome.Action = "ignited"
	outcome.IgniteCount = updated.IgniteCount
	outcome.PointsTransferred = 1
	return nil
}

func (d *EngagementDAO) removeIgnite(tx *gorm.DB, post Post, ignite PostIgnite, giverID, collegeID uint, outcome *IgniteOutcome) error {
	// The author's point is taken back first: if they already spent it, the
	// un-ignite is rejected rather than clamping the balance and letting the
	// ledger drift from it.
	_, err := d.ledger.Append(tx, PointTransaction{
		UserID:        post.AuthorID,
		Type:          "DEDUCTED",
		Points:        -1,
		Description:   fmt.Sprintf("Ignite removed from your post '%s'", truncate(post.Title, 50)),
		ReferenceType: "ignite",
		ReferenceID:   post.ID,
		CollegeID:     collegeID,
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientPoints) {
			return ErrIgnitePointSpent
		}
		return err
	}

	_, err = d.ledger.Append(tx, PointTransaction{
		UserID:        giverID,
		Type:          "REFUNDED",
		Points:        1,
		Description:   fmt.Sprintf("Refund: Removed ignite from post '%s'", truncate(post.Title, 50)),
		ReferenceType: "ignite",
		ReferenceID:   post.ID,
		CollegeID:     collegeID,
	})
	if err != nil {
		return err
	}

	if err = tx.Delete(&ignite).Error; err != nil {
		return err
	}

	err = tx.Model(&Post{}).Where("id = ? AND ignite_count > 0", post.ID).
		Update("ignite_count", gorm.Expr("ignite_count - 1")).Error
	if err != nil {
		return err
	}

	var updated Post
	if err = tx.Take(&updated, post.ID).Error; err != nil {
		return err
	}

	outcome.Action = "removed"
	outcome.IgniteCount = updated.IgniteCount
	outcome.PointsTransferred = -1
	return nil
}

func (d *EngagementDAO) FindIgnitesByPost(ctx context.Context, postID uint) ([]PostIgnite, error) {
	var ignites []PostIgnite
	err := d.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at DESC").Find(&ignites).Error
	if err != nil {
		return nil, err
	}

	return ignites, nil
}

func (d *EngagementDAO) HasIgnited(ctx context.Context, postID, giverID uint) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&PostIgnite{}).
		Where("post_id = ? AND giver_id = ?", postID, giverID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// truncate cuts s to at most max runes. Cutting on runes rather than bytes
// keeps multibyte titles valid UTF-8 in ledger descriptions.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
