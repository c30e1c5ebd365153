// internal/app/system/watcher/membershipwatcher.go

// Package watcher reacts to club_membership document changes and drives the
// claims synchronizer. It is the reactive trigger path: lifecycle write
// handlers only write documents; this watcher turns those writes into claims
// recomputations.
package watcher

import (
	"context"
	"sync"
	"time"

	membershipstore "github.com/dalemusser/huntclub/internal/app/store/memberships"
	"github.com/dalemusser/huntclub/internal/app/system/claims"
	"github.com/dalemusser/huntclub/internal/app/system/timeouts"
	"github.com/dalemusser/huntclub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MembershipWatcher tails the club_memberships change stream and dispatches
// create/update/delete events to the claims synchronizer.
type MembershipWatcher struct {
	db     *mongo.Database
	syncer *claims.Syncer
	log    *zap.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewMembershipWatcher creates a watcher bound to the given database and
// synchronizer.
func NewMembershipWatcher(db *mongo.Database, syncer *claims.Syncer, logger *zap.Logger) *MembershipWatcher {
	return &MembershipWatcher{
		db:     db,
		syncer: syncer,
		log:    logger,
		stopCh: make(chan struct{}),
	}
}

// Start begins tailing the change stream in the background.
func (w *MembershipWatcher) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("membership watcher started")
}

// Stop signals the watcher to stop and waits for it to finish.
func (w *MembershipWatcher) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("membership watcher stopped")
}

func (w *MembershipWatcher) run() {
	defer w.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-w.stopCh
		cancel()
	}()

	for {
		if err := w.tail(ctx); err != nil && ctx.Err() == nil {
			w.log.Error("membership change stream failed, reopening", zap.Error(err))
		}
		select {
		case <-w.stopCh:
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func (w *MembershipWatcher) tail(ctx context.Context) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": []string{"insert", "update", "replace", "delete"}},
		}}},
	}
	opts := options.ChangeStream().
		SetFullDocument(options.UpdateLookup).
		SetFullDocumentBeforeChange(options.WhenAvailable)

	stream, err := w.db.Collection(membershipstore.Collection).Watch(ctx, pipeline, opts)
	if err != nil {
		return err
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		var ev changeEvent
		if err := stream.Decode(&ev); err != nil {
			w.log.Error("failed to decode membership change event", zap.Error(err))
			continue
		}
		w.dispatch(ev)
	}
	return stream.Err()
}

// changeEvent is the subset of a Mongo change-stream event we care about.
type changeEvent struct {
	OperationType string                 `bson:"operationType"`
	DocumentKey   documentKey            `bson:"documentKey"`
	FullDocument  *models.ClubMembership `bson:"fullDocument"`
	BeforeChange  *models.ClubMembership `bson:"fullDocumentBeforeChange"`
	UpdateDesc    updateDescription      `bson:"updateDescription"`
}

type documentKey struct {
	ID string `bson:"_id"`
}

type updateDescription struct {
	UpdatedFields bson.M   `bson:"updatedFields"`
	RemovedFields []string `bson:"removedFields"`
}

// dispatch routes one change event to the synchronizer. Handler errors are
// logged, not propagated: the stream must keep flowing, and the on-demand
// reconciliation heals any events whose handling failed.
func (w *MembershipWatcher) dispatch(ev changeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()

	var err error
	switch ev.OperationType {
	case "insert":
		if ev.FullDocument == nil {
			return
		}
		err = w.syncer.MembershipCreated(ctx, *ev.FullDocument)

	case "update", "replace":
		err = w.handleUpdate(ctx, ev)

	case "delete":
		err = w.handleDelete(ctx, ev)
	}

	if err != nil {
		w.log.Error("membership change handling failed",
			zap.String("operation", ev.OperationType),
			zap.String("membership_id", ev.DocumentKey.ID),
			zap.Error(err))
	}
}

func (w *MembershipWatcher) handleUpdate(ctx context.Context, ev changeEvent) error {
	if ev.FullDocument == nil {
		// Document deleted between the update and the fullDocument lookup;
		// the delete event will recompute.
		return nil
	}

	if ev.BeforeChange != nil {
		return w.syncer.MembershipUpdated(ctx, *ev.BeforeChange, *ev.FullDocument)
	}

	// No pre-image available: fall back to the update description. Only
	// edits to the status fields can change the claims-relevant predicate.
	if !statusFieldsTouched(ev.UpdateDesc) {
		return nil
	}
	return w.syncer.Recompute(ctx, ev.FullDocument.UserID)
}

func (w *MembershipWatcher) handleDelete(ctx context.Context, ev changeEvent) error {
	if ev.BeforeChange != nil {
		return w.syncer.MembershipDeleted(ctx, *ev.BeforeChange)
	}

	// No pre-image: recover the user from the composite document key.
	clubID, userID, ok := models.SplitMembershipID(ev.DocumentKey.ID)
	if !ok {
		w.log.Warn("deleted membership has malformed id, skipping",
			zap.String("membership_id", ev.DocumentKey.ID))
		return nil
	}
	return w.syncer.MembershipDeleted(ctx, models.ClubMembership{
		ID:     ev.DocumentKey.ID,
		ClubID: clubID,
		UserID: userID,
	})
}

// statusFieldsTouched reports whether an update modified membership_status
// or approval_status.
func statusFieldsTouched(desc updateDescription) bool {
	for field := range desc.UpdatedFields {
		if field == "membership_status" || field == "approval_status" {
			return true
		}
	}
	for _, field := range desc.RemovedFields {
		if field == "membership_status" || field == "approval_status" {
			return true
		}
	}
	return false
}
