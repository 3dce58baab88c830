package transfer

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/hauskeep/hauskeep/pkg/cloud"
	"github.com/hauskeep/hauskeep/pkg/household"
	"github.com/hauskeep/hauskeep/pkg/models"
)

// transferItem is one local entity prepared for transfer. The create func
// performs the remote call and returns the new remote id; cascade, if set,
// creates the entity's sub-resources against that id.
type transferItem struct {
	sourceID int
	name     string
	dupeKey  string
	create   func(ctx context.Context) (string, error)
	cascade  func(ctx context.Context, remoteID string) []cascadeFailure
}

// cascadeFailure is a sub-resource create that the remote rejected. It gets
// its own ledger row under a "parent/sub" category so the failure is not
// silently dropped, but it does not count against the parent category's
// item totals.
type cascadeFailure struct {
	category string
	sourceID int
	name     string
	err      error
}

// categoryDescriptor declares how one category transfers: where its local
// items come from, how existing remote duplicates are detected, and which
// categories must have run first so foreign keys can be remapped. A
// descriptor with a run func replaces the per-item loop entirely (chore
// logs batch, home profile singleton).
type categoryDescriptor struct {
	name        string
	dependsOn   []string
	historyOnly bool

	load     func(ctx context.Context, env *runEnv) ([]transferItem, error)
	existing func(ctx context.Context, env *runEnv) (map[string]string, error)
	run      func(ctx context.Context, env *runEnv) error
}

// runEnv is the shared state one background run threads through every
// category.
type runEnv struct {
	session   *models.TransferSession
	client    *cloud.Client
	ledger    *Service
	household *household.Service
	tracker   *Tracker

	// depMaps holds, per already-processed category, the local id to remote
	// id translation built from the session's ledger.
	depMaps map[string]map[int]string
}

// runCategory executes one category's transfer. Items already present in
// the session's ledger are folded into progress and never reprocessed, so
// a resumed run picks up exactly where the interrupted one stopped, at item
// granularity.
func (env *runEnv) runCategory(ctx context.Context, desc categoryDescriptor) error {
	if desc.run != nil {
		return desc.run(ctx, env)
	}

	items, err := desc.load(ctx, env)
	if err != nil {
		return err
	}

	prior, err := env.ledger.CategoryLogs(ctx, env.session.ID, desc.name)
	if err != nil {
		return err
	}

	env.tracker.StartCategory(desc.name, len(items))

	logged := make(map[int]struct{}, len(prior))
	for _, row := range prior {
		logged[row.SourceID] = struct{}{}
		env.tracker.ItemDone(row.Name, row.Status)
	}

	pending := make([]transferItem, 0, len(items))
	for _, item := range items {
		if _, ok := logged[item.sourceID]; !ok {
			pending = append(pending, item)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	// One remote list call per category, not per item.
	existing, err := desc.existing(ctx, env)
	if err != nil {
		return err
	}

	for _, item := range pending {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}

		if remoteID, ok := existing[item.dupeKey]; ok {
			err = env.logItem(ctx, desc.name, item, models.TransferItemSkipped, &remoteID, nil)
			if err != nil {
				return err
			}
			continue
		}

		remoteID, createErr := item.create(ctx)
		if createErr != nil {
			if ctx.Err() != nil {
				return errors.WithStack(ctx.Err())
			}
			msg := remoteMessage(createErr)
			err = env.logItem(ctx, desc.name, item, models.TransferItemFailed, nil, &msg)
			if err != nil {
				return err
			}
			continue
		}

		err = env.logItem(ctx, desc.name, item, models.TransferItemCreated, &remoteID, nil)
		if err != nil {
			return err
		}

		if item.cascade != nil {
			for _, failure := range item.cascade(ctx, remoteID) {
				// A cancelled context fails every remaining sub-resource
				// call; those are not remote rejections and must not be
				// recorded as such.
				if err := ctx.Err(); err != nil {
					return errors.WithStack(err)
				}
				msg := remoteMessage(failure.err)
				err = env.ledger.AppendItemLog(ctx, &models.TransferItemLog{
					SessionID:    env.session.ID,
					Category:     failure.category,
					SourceID:     failure.sourceID,
					Name:         failure.name,
					Status:       models.TransferItemFailed,
					ErrorMessage: &msg,
				})
				if err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (env *runEnv) logItem(ctx context.Context, category string, item transferItem, status string, remoteID, errorMessage *string) error {
	err := env.ledger.AppendItemLog(ctx, &models.TransferItemLog{
		SessionID:    env.session.ID,
		Category:     category,
		SourceID:     item.sourceID,
		RemoteID:     remoteID,
		Name:         item.name,
		Status:       status,
		ErrorMessage: errorMessage,
	})
	if err != nil {
		return err
	}
	env.tracker.ItemDone(item.name, status)
	return nil
}

// depMap returns the remote id translation table for a dependency category,
// loading it from the ledger on first use.
func (env *runEnv) depMap(ctx context.Context, category string) (map[int]string, error) {
	if m, ok := env.depMaps[category]; ok {
		return m, nil
	}
	m, err := env.ledger.RemoteIDMap(ctx, env.session.ID, category)
	if err != nil {
		return nil, err
	}
	env.depMaps[category] = m
	return m, nil
}

// dupeKey builds a case-insensitive duplicate-detection key from the
// distinguishing fields of an item.
func dupeKey(parts ...string) string {
	return strings.ToLower(strings.Join(parts, "|"))
}

// remapID translates an optional local foreign key through a dependency
// map. A reference whose target never made it to the remote resolves to
// nil; the created item simply omits it.
func remapID(m map[int]string, localID *int) *string {
	if localID == nil {
		return nil
	}
	if remote, ok := m[*localID]; ok {
		return &remote
	}
	return nil
}

// remapRequiredID is remapID for non-nullable local foreign keys.
func remapRequiredID(m map[int]string, localID int) *string {
	if remote, ok := m[localID]; ok {
		return &remote
	}
	return nil
}

// remoteMessage extracts the text recorded in the ledger for a failed
// remote call.
func remoteMessage(err error) string {
	remoteErr := &cloud.RemoteError{}
	if errors.As(err, &remoteErr) {
		return remoteErr.Message
	}
	return err.Error()
}
