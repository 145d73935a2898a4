// internal/app/feed/mongofeed.go
package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/dalemusser/grouphub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// eventBuffer absorbs short bursts so a slow consumer does not stall the
// change-stream cursor.
const eventBuffer = 64

// MongoFeed implements Feed over MongoDB change streams, one stream per
// collection. Events for a single collection arrive in oplog order.
type MongoFeed struct {
	id     string
	log    *zap.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup

	subjects  chan Event[models.Subject]
	students  chan Event[models.Student]
	groupings chan Event[models.Grouping]
	groups    chan Event[models.Group]
	members   chan MemberEvent
}

// rawChange is the slice of a change-stream document we care about.
type rawChange struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID primitive.ObjectID `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument             bson.Raw `bson:"fullDocument"`
	FullDocumentBeforeChange bson.Raw `bson:"fullDocumentBeforeChange"`
}

// NewMongoFeed opens change streams on all five collections and starts
// pumping events. The feed stops when ctx ends or Close is called.
func NewMongoFeed(ctx context.Context, db *mongo.Database, logger *zap.Logger) (*MongoFeed, error) {
	ctx, cancel := context.WithCancel(ctx)
	f := &MongoFeed{
		id:     uuid.NewString(),
		log:    logger,
		cancel: cancel,

		subjects:  make(chan Event[models.Subject], eventBuffer),
		students:  make(chan Event[models.Student], eventBuffer),
		groupings: make(chan Event[models.Grouping], eventBuffer),
		groups:    make(chan Event[models.Group], eventBuffer),
		members:   make(chan MemberEvent, eventBuffer),
	}

	// Updates deliver the post-image so the projection can overwrite
	// whole documents instead of patching fields.
	docOpts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	// Membership rows additionally request the pre-image so a delete can
	// name the member it removed (when the server retained one).
	memberOpts := options.ChangeStream().
		SetFullDocument(options.UpdateLookup).
		SetFullDocumentBeforeChange(options.WhenAvailable)

	var streams []*mongo.ChangeStream
	var err error
	open := func(coll string, opts *options.ChangeStreamOptions) {
		if err != nil {
			return
		}
		var cs *mongo.ChangeStream
		cs, err = db.Collection(coll).Watch(ctx, mongo.Pipeline{}, opts)
		if err != nil {
			err = fmt.Errorf("watch %s: %w", coll, err)
			return
		}
		streams = append(streams, cs)
	}

	open("subjects", docOpts)
	open("students", docOpts)
	open("groupings", docOpts)
	open("groups", docOpts)
	open("group_members", memberOpts)
	if err != nil {
		cancel()
		for _, cs := range streams {
			_ = cs.Close(context.Background())
		}
		return nil, err
	}

	f.wg.Add(5)
	go pump(ctx, f, streams[0], f.subjects, "subjects")
	go pump(ctx, f, streams[1], f.students, "students")
	go pump(ctx, f, streams[2], f.groupings, "groupings")
	go pump(ctx, f, streams[3], f.groups, "groups")
	go pumpMembers(ctx, f, streams[4])

	logger.Info("change feed started", zap.String("feed_id", f.id))
	return f, nil
}

func (f *MongoFeed) Subjects() <-chan Event[models.Subject]   { return f.subjects }
func (f *MongoFeed) Students() <-chan Event[models.Student]   { return f.students }
func (f *MongoFeed) Groupings() <-chan Event[models.Grouping] { return f.groupings }
func (f *MongoFeed) Groups() <-chan Event[models.Group]       { return f.groups }
func (f *MongoFeed) Members() <-chan MemberEvent              { return f.members }

// Close stops all streams and waits for the pumps to drain. Channels are
// closed by their pumps; Close is idempotent.
func (f *MongoFeed) Close() error {
	f.cancel()
	f.wg.Wait()
	f.log.Info("change feed closed", zap.String("feed_id", f.id))
	return nil
}

func pump[T any](ctx context.Context, f *MongoFeed, cs *mongo.ChangeStream, out chan Event[T], coll string) {
	defer f.wg.Done()
	defer close(out)
	defer cs.Close(context.Background())

	for cs.Next(ctx) {
		var raw rawChange
		if err := cs.Decode(&raw); err != nil {
			f.log.Warn("undecodable change event",
				zap.String("feed_id", f.id),
				zap.String("collection", coll),
				zap.Error(err))
			continue
		}
		ev, ok := translate[T](raw)
		if !ok {
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
	if err := cs.Err(); err != nil && ctx.Err() == nil {
		f.log.Error("change stream ended",
			zap.String("feed_id", f.id),
			zap.String("collection", coll),
			zap.Error(err))
	}
}

func pumpMembers(ctx context.Context, f *MongoFeed, cs *mongo.ChangeStream) {
	defer f.wg.Done()
	defer close(f.members)
	defer cs.Close(context.Background())

	for cs.Next(ctx) {
		var raw rawChange
		if err := cs.Decode(&raw); err != nil {
			f.log.Warn("undecodable change event",
				zap.String("feed_id", f.id),
				zap.String("collection", "group_members"),
				zap.Error(err))
			continue
		}
		ev, ok := translateMember(raw)
		if !ok {
			continue
		}
		select {
		case f.members <- ev:
		case <-ctx.Done():
			return
		}
	}
	if err := cs.Err(); err != nil && ctx.Err() == nil {
		f.log.Error("change stream ended",
			zap.String("feed_id", f.id),
			zap.String("collection", "group_members"),
			zap.Error(err))
	}
}

// translate maps a raw change-stream document onto a typed Event. Unknown
// operation types (invalidate, drop, rename) are skipped.
func translate[T any](raw rawChange) (Event[T], bool) {
	op, ok := mapOp(raw.OperationType)
	if !ok {
		return Event[T]{}, false
	}
	ev := Event[T]{Op: op, ID: raw.DocumentKey.ID}
	if op != OpDelete && len(raw.FullDocument) > 0 {
		var doc T
		if err := bson.Unmarshal(raw.FullDocument, &doc); err == nil {
			ev.Doc = &doc
		}
	}
	return ev, true
}

// translateMember is translate for membership rows. Deletes recover the
// group and name from the pre-image when one was retained; without it the
// event carries only the row ID.
func translateMember(raw rawChange) (MemberEvent, bool) {
	op, ok := mapOp(raw.OperationType)
	if !ok {
		return MemberEvent{}, false
	}
	ev := MemberEvent{Op: op, RowID: raw.DocumentKey.ID}

	src := raw.FullDocument
	if op == OpDelete {
		src = raw.FullDocumentBeforeChange
	}
	if len(src) > 0 {
		var m models.GroupMember
		if err := bson.Unmarshal(src, &m); err == nil {
			ev.GroupID = m.GroupID
			ev.Name = m.MemberName
		}
	}
	return ev, true
}

func mapOp(operationType string) (Op, bool) {
	switch operationType {
	case "insert":
		return OpInsert, true
	case "update", "replace":
		return OpUpdate, true
	case "delete":
		return OpDelete, true
	}
	return 0, false
}
