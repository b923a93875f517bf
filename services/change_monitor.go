package services

import (
	"context"
	"sync"
	"time"

	"github.com/amorty/cafe-admin/live"
	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
	"github.com/amorty/cafe-admin/store"
	"github.com/amorty/cafe-admin/utils"
	"gorm.io/gorm"
)

const changeBatchSize = 100

// ChangeMonitor drains db_changes and pushes each change to live clients.
type ChangeMonitor struct {
	DB        *gorm.DB
	Publisher *Publisher
	StopChan  chan struct{}
	Interval  time.Duration

	stopOnce sync.Once
}

func NewChangeMonitor(db *gorm.DB, s store.Store, hub *live.Hub) *ChangeMonitor {
	return &ChangeMonitor{
		DB:        db,
		Publisher: &Publisher{Store: s, Hub: hub},
		StopChan:  make(chan struct{}),
		Interval:  1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := cm.CheckChanges(context.Background()); err != nil {
					utils.ErrorLogger.Printf("Change monitor: %v", err)
				}
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	cm.stopOnce.Do(func() { close(cm.StopChan) })
}

// CheckChanges broadcasts one batch of unprocessed changes, marks them
// processed and returns how many were handled.
func (cm *ChangeMonitor) CheckChanges(ctx context.Context) (int, error) {
	var changes []models.DBChange
	if err := cm.DB.WithContext(ctx).
		Where("processed = ?", false).
		Order("id ASC").
		Limit(changeBatchSize).
		Find(&changes).Error; err != nil {
		return 0, err
	}
	if len(changes) == 0 {
		return 0, nil
	}

	ids := make([]uint, 0, len(changes))
	for _, change := range changes {
		kind, ok := schema.Lookup(change.Kind)
		if !ok {
			utils.ErrorLogger.Printf("Skipping change %d for unknown kind %q", change.ID, change.Kind)
		} else {
			cm.Publisher.Publish(ctx, kind, change.ActionType, change.RecordKey)
		}
		ids = append(ids, change.ID)
	}

	if err := cm.DB.WithContext(ctx).
		Model(&models.DBChange{}).
		Where("id IN ?", ids).
		Update("processed", true).Error; err != nil {
		return 0, err
	}

	utils.InfoLogger.Printf("Processed %d record changes", len(changes))
	return len(changes), nil
}

// Publisher sends one record change to the live clients allowed to see it.
type Publisher struct {
	Store store.Store
	Hub   *live.Hub
}

func (p *Publisher) Publish(ctx context.Context, kind *schema.Kind, action, key string) {
	msg := live.Message{
		Event: live.EventFor(action),
		Kind:  kind.Name,
		Key:   key,
	}

	// Deleted rows are gone, so only admins can be told safely.
	if action == models.ActionDelete {
		p.Hub.BroadcastTo(msg, adminsOnly)
		return
	}

	rec, err := p.Store.Get(ctx, kind, key)
	if err != nil {
		// A later change in the batch may have deleted it.
		if !store.IsNotFound(err) {
			utils.ErrorLogger.Printf("Error fetching %s %s: %v", kind.Name, key, err)
		}
		return
	}
	msg.Data = rec
	p.Hub.BroadcastTo(msg, func(c live.Client) bool {
		return Visible(c.Actor, kind, rec)
	})
}

// Func adapts the publisher to a dashboard ChangeFunc.
func (p *Publisher) Func(ctx context.Context) ChangeFunc {
	return func(kind *schema.Kind, action, key string) {
		p.Publish(ctx, kind, action, key)
	}
}

func adminsOnly(c live.Client) bool {
	return c.Actor.IsAdmin()
}
