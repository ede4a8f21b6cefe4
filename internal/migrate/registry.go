package migrate

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mmt/internal/models"
	"github.com/desertthunder/mmt/internal/services"
	"github.com/desertthunder/mmt/internal/shared"
)

// Batch is one fetched page of remote records, opaque to the engine.
type Batch interface {
	Len() int
}

// Pipeline pairs the fetch and ingest halves of a migration for one entity
// kind. Fetch fills in the transfer state's page geometry on first contact;
// Ingest classifies and imports the batch, folding results into the report.
type Pipeline interface {
	Kind() models.EntityKind
	Fetch(ctx context.Context, state *models.TransferState) (Batch, error)
	Ingest(ctx context.Context, batch Batch, state *models.TransferState, report *Report) error
}

// Registry is the static kind-to-pipeline table. All four pipelines are wired
// at construction; nothing registers at runtime.
type Registry struct {
	pipelines map[models.EntityKind]Pipeline
}

// Dependencies collects everything the pipelines need.
type Dependencies struct {
	Source   services.RemoteSource
	Users    UserStore
	Terms    TermStore
	Content  ContentStore
	Rewriter HostRewriter
	Config   shared.MigrationConfig
	Logger   *log.Logger
}

// NewRegistry wires the user, term, media, and post pipelines over the given
// dependencies.
func NewRegistry(deps Dependencies) *Registry {
	resolver := NewResolver(deps.Users, deps.Terms, deps.Content)
	importer := NewContentImporter(deps.Content, deps.Users, resolver, deps.Rewriter, deps.Config.FallbackAuthorID, deps.Logger)

	pipelines := map[models.EntityKind]Pipeline{
		models.KindUser: &userPipeline{
			source:     deps.Source,
			classifier: NewUserClassifier(resolver, deps.Users, deps.Logger),
			users:      deps.Users,
			logger:     deps.Logger,
		},
		models.KindTerm: &termPipeline{
			source:       deps.Source,
			classifier:   NewTermClassifier(resolver, deps.Terms, deps.Logger),
			importer:     NewTermImporter(deps.Terms, deps.Logger),
			includeEmpty: deps.Config.IncludeEmptyTerms,
		},
		models.KindMedia: &contentPipeline{kind: models.KindMedia, source: deps.Source, importer: importer},
		models.KindPost:  &contentPipeline{kind: models.KindPost, source: deps.Source, importer: importer},
	}

	return &Registry{pipelines: pipelines}
}

// Lookup returns the pipeline for a kind.
func (r *Registry) Lookup(kind models.EntityKind) (Pipeline, error) {
	pipe, ok := r.pipelines[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no pipeline for kind %q", shared.ErrInvalidArgument, kind)
	}
	return pipe, nil
}

// Order returns the kinds in dependency order: users own content, terms
// attach to posts, and media must land before the posts that embed it.
func (r *Registry) Order() []models.EntityKind {
	return []models.EntityKind{models.KindUser, models.KindTerm, models.KindMedia, models.KindPost}
}

type userBatch struct {
	items []models.RemoteUser
}

func (b *userBatch) Len() int { return len(b.items) }

type userPipeline struct {
	source     services.RemoteSource
	classifier *UserClassifier
	users      UserStore
	logger     *log.Logger
}

func (p *userPipeline) Kind() models.EntityKind { return models.KindUser }

func (p *userPipeline) Fetch(ctx context.Context, state *models.TransferState) (Batch, error) {
	page, err := p.source.FetchUsers(ctx, state.Page, state.PerPage)
	if err != nil {
		return nil, err
	}
	state.TotalPages = page.TotalPages
	return &userBatch{items: page.Items}, nil
}

func (p *userPipeline) Ingest(ctx context.Context, batch Batch, state *models.TransferState, report *Report) error {
	items := batch.(*userBatch).items

	buckets, err := p.classifier.Classify(items)
	if err != nil {
		return err
	}

	for _, remote := range buckets.Migrateable {
		if _, err := p.users.Create(remote); err != nil {
			return fmt.Errorf("%w: user %q: %v", shared.ErrCreateFailed, remote.Username, err)
		}
		report.Created++
	}

	if err := p.classifier.LinkReferences(buckets.Referenced); err != nil {
		return err
	}
	report.Referenced += len(buckets.Referenced)

	for _, conflict := range buckets.Conflicted {
		report.Conflicted++
		report.Conflicts = append(report.Conflicts, models.ConflictEntry{
			Kind:        models.KindUser,
			RemoteID:    conflict.Remote.ID,
			RemoteLabel: conflict.Remote.Username,
			LocalID:     conflict.Local.ID,
			LocalLabel:  conflict.Local.Username,
			Reason:      conflict.Reason,
		})
	}

	return nil
}

type termBatch struct {
	items []models.RemoteTerm
}

func (b *termBatch) Len() int { return len(b.items) }

type termPipeline struct {
	source       services.RemoteSource
	classifier   *TermClassifier
	importer     *TermImporter
	includeEmpty bool
}

func (p *termPipeline) Kind() models.EntityKind { return models.KindTerm }

func (p *termPipeline) Fetch(ctx context.Context, state *models.TransferState) (Batch, error) {
	page, err := p.source.FetchTerms(ctx, state.Page, state.PerPage, p.includeEmpty)
	if err != nil {
		return nil, err
	}
	state.TotalPages = page.TotalPages
	return &termBatch{items: page.Items}, nil
}

func (p *termPipeline) Ingest(ctx context.Context, batch Batch, state *models.TransferState, report *Report) error {
	items := batch.(*termBatch).items

	buckets, err := p.classifier.Classify(items)
	if err != nil {
		return err
	}

	if err := p.classifier.LinkReferences(buckets.Referenced); err != nil {
		return err
	}
	report.Referenced += len(buckets.Referenced)

	migrated, outcomes, err := p.importer.Import(buckets.Migrateable)
	report.Terms = append(report.Terms, migrated...)
	report.tally(outcomes)
	return err
}

type contentBatch struct {
	items []models.RemotePost
}

func (b *contentBatch) Len() int { return len(b.items) }

type contentPipeline struct {
	kind     models.EntityKind
	source   services.RemoteSource
	importer *ContentImporter
}

func (p *contentPipeline) Kind() models.EntityKind { return p.kind }

func (p *contentPipeline) Fetch(ctx context.Context, state *models.TransferState) (Batch, error) {
	page, err := p.source.FetchContent(ctx, p.kind, state.Page, state.PerPage)
	if err != nil {
		return nil, err
	}
	state.TotalPages = page.TotalPages
	return &contentBatch{items: page.Items}, nil
}

func (p *contentPipeline) Ingest(ctx context.Context, batch Batch, state *models.TransferState, report *Report) error {
	items := batch.(*contentBatch).items

	conflicts, outcomes, err := p.importer.ImportBatch(p.kind, items)

	state.Conflicts = append(state.Conflicts, conflicts...)
	for _, ref := range conflicts {
		report.Conflicts = append(report.Conflicts, models.ConflictEntry{
			Kind:        p.kind,
			RemoteID:    ref.ID,
			RemoteLabel: ref.GUID,
			Reason:      models.ConflictGUID,
		})
	}
	report.tally(outcomes)
	return err
}
