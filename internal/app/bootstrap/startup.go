// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/grouphub/internal/app/enroll"
	"github.com/dalemusser/grouphub/internal/app/feed"
	"github.com/dalemusser/grouphub/internal/app/projection"
	groupingstore "github.com/dalemusser/grouphub/internal/app/store/groupings"
	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	historystore "github.com/dalemusser/grouphub/internal/app/store/history"
	memberstore "github.com/dalemusser/grouphub/internal/app/store/members"
	studentstore "github.com/dalemusser/grouphub/internal/app/store/students"
	subjectstore "github.com/dalemusser/grouphub/internal/app/store/subjects"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup builds the projection from a full fetch of the store of record,
// opens the change-stream feed, and starts the pump. BuildHandler and
// Shutdown pick the pieces up from these package vars; WAFFLE calls the
// three hooks in order from one goroutine, so no locking is needed.
var (
	appService *enroll.Service
	appFeed    *feed.MongoFeed
	feedCancel context.CancelFunc
)

func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	members := memberstore.New(db)
	st := enroll.Stores{
		Subjects:  subjectstore.New(db),
		Students:  studentstore.New(db),
		Groupings: groupingstore.New(db),
		Groups:    groupstore.New(db),
		Members:   members,
		History:   historystore.New(db),
	}

	proj := projection.New(members, logger.Named("projection"))

	fetchCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	subjects, err := subjectstore.New(db).List(fetchCtx)
	if err != nil {
		return fmt.Errorf("initial fetch subjects: %w", err)
	}
	students, err := studentstore.New(db).ListAll(fetchCtx)
	if err != nil {
		return fmt.Errorf("initial fetch students: %w", err)
	}
	groupings, err := groupingstore.New(db).List(fetchCtx)
	if err != nil {
		return fmt.Errorf("initial fetch groupings: %w", err)
	}
	groups, err := groupstore.New(db).List(fetchCtx)
	if err != nil {
		return fmt.Errorf("initial fetch groups: %w", err)
	}
	memberNames, err := members.AllNames(fetchCtx)
	if err != nil {
		return fmt.Errorf("initial fetch members: %w", err)
	}
	proj.Load(subjects, students, groupings, groups, memberNames)

	logger.Info("projection loaded",
		zap.Int("subjects", len(subjects)),
		zap.Int("students", len(students)),
		zap.Int("groupings", len(groupings)),
		zap.Int("groups", len(groups)))

	// The feed outlives the startup context; Shutdown cancels it.
	runCtx, cancelRun := context.WithCancel(context.Background())
	f, err := feed.NewMongoFeed(runCtx, db, logger.Named("feed"))
	if err != nil {
		cancelRun()
		return fmt.Errorf("open change feed: %w", err)
	}
	go proj.Run(runCtx, f)

	appService = enroll.New(proj, st, logger.Named("enroll"))
	appFeed = f
	feedCancel = cancelRun
	return nil
}
