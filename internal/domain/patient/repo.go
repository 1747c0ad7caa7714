package patient

import "context"

// CollectionRepository is the authoritative store: the whole collection is
// loaded and saved as a single document. Every store operation loads fresh;
// there is no cross-request cache.
type CollectionRepository interface {
	Load(ctx context.Context) (Collection, error)
	Save(ctx context.Context, col Collection) error
}

// Mirror opens sessions against the secondary database sink. The mirror is
// best-effort: its failures are logged and never affect the caller-visible
// outcome of a store operation.
type Mirror interface {
	Connect(ctx context.Context) (MirrorSession, error)
}

// MirrorSession is one established sink session. ImportAll replicates the
// entire collection in a single all-or-nothing transaction.
type MirrorSession interface {
	ImportAll(ctx context.Context, col Collection) error
	Close(ctx context.Context) error
}
