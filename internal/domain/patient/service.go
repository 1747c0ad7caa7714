package patient

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Service orchestrates the record store. Every operation follows
// load -> mutate in memory -> persist. The file save is the authoritative
// commit point; a snapshot is then handed to the mirror worker off the
// request path. There is no cross-request locking on the load/save sequence:
// two concurrent mutations can race and the second save wins. That is an
// accepted limitation for the target load profile.
type Service struct {
	records CollectionRepository
	mirror  Mirror
	log     zerolog.Logger
	timeout time.Duration

	jobs chan Collection
	done chan struct{}
	once sync.Once
}

// NewService builds the store and starts its single mirror worker. queueSize
// bounds how many pending snapshots may wait behind the in-flight mirror
// write; mirrorTimeout bounds each connect/import/close round.
func NewService(records CollectionRepository, mirror Mirror, logger zerolog.Logger, queueSize int, mirrorTimeout time.Duration) *Service {
	s := &Service{
		records: records,
		mirror:  mirror,
		log:     logger,
		timeout: mirrorTimeout,
		jobs:    make(chan Collection, queueSize),
		done:    make(chan struct{}),
	}
	go s.runMirrorWorker()
	return s
}

// Close stops accepting mirror work and waits for the worker to drain.
func (s *Service) Close() {
	s.once.Do(func() {
		close(s.jobs)
		<-s.done
	})
}

// List returns the full collection.
func (s *Service) List(ctx context.Context) (Collection, error) {
	return s.records.Load(ctx)
}

// Get returns one record by id.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	col, err := s.records.Load(ctx)
	if err != nil {
		return nil, err
	}
	f, ok := col[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return &Record{ID: id, Fields: f}, nil
}

// Sort returns the collection ordered by one of SortFields. Ties are broken
// by id so the result is deterministic.
func (s *Service) Sort(ctx context.Context, field, order string) ([]Record, error) {
	key := sortKey(field)
	if key == nil {
		var v ValidationError
		v.add("sort_by", "must be one of height, weight, bmi, age")
		return nil, &v
	}
	if order != "asc" && order != "desc" {
		var v ValidationError
		v.add("order", "must be 'asc' or 'desc'")
		return nil, &v
	}

	col, err := s.records.Load(ctx)
	if err != nil {
		return nil, err
	}

	recs := make([]Record, 0, len(col))
	for id, f := range col {
		recs = append(recs, Record{ID: id, Fields: f})
	}
	sort.Slice(recs, func(i, j int) bool {
		a, b := key(recs[i]), key(recs[j])
		if a == b {
			return recs[i].ID < recs[j].ID
		}
		if order == "desc" {
			return a > b
		}
		return a < b
	})
	return recs, nil
}

func sortKey(field string) func(Record) float64 {
	switch field {
	case "height":
		return func(r Record) float64 { return r.Height }
	case "weight":
		return func(r Record) float64 { return r.Weight }
	case "bmi":
		return func(r Record) float64 { return r.BMI }
	case "age":
		return func(r Record) float64 { return float64(r.Age) }
	}
	return nil
}

// Create validates the record, derives bmi/verdict, and inserts it. The id
// must not already exist.
func (s *Service) Create(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	rec.Derive()

	col, err := s.records.Load(ctx)
	if err != nil {
		return err
	}
	if _, exists := col[rec.ID]; exists {
		return &ConflictError{ID: rec.ID}
	}
	col[rec.ID] = rec.Fields
	return s.persist(ctx, col)
}

// Update merges the patch into the existing record, forces the id back to the
// target, revalidates the whole record, and recomputes derived fields. A
// validation failure leaves the stored record untouched.
func (s *Service) Update(ctx context.Context, id string, patch Update) (*Record, error) {
	col, err := s.records.Load(ctx)
	if err != nil {
		return nil, err
	}
	existing, ok := col[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}

	merged := Record{ID: id, Fields: existing.Apply(patch)}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	merged.Derive()

	col[id] = merged.Fields
	if err := s.persist(ctx, col); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Delete removes a record by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	col, err := s.records.Load(ctx)
	if err != nil {
		return err
	}
	if _, ok := col[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(col, id)
	return s.persist(ctx, col)
}

// persist writes the collection to the file store synchronously, then hands a
// snapshot to the mirror worker. The mirror outcome never affects the caller.
func (s *Service) persist(ctx context.Context, col Collection) error {
	if err := s.records.Save(ctx, col); err != nil {
		return err
	}

	snapshot := make(Collection, len(col))
	for id, f := range col {
		snapshot[id] = f
	}
	select {
	case s.jobs <- snapshot:
	default:
		// Queue full: drop this snapshot. A later mutation enqueues a
		// fresher one, so the mirror only lags, it never diverges.
		s.log.Warn().Int("queue", cap(s.jobs)).Msg("mirror queue full, snapshot dropped")
	}
	return nil
}

// runMirrorWorker is the single consumer of the job queue: at most one mirror
// write is in flight at a time and writes happen in submission order.
func (s *Service) runMirrorWorker() {
	defer close(s.done)
	for col := range s.jobs {
		s.replicate(col)
	}
}

func (s *Service) replicate(col Collection) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	sess, err := s.mirror.Connect(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("mirror connection failed")
		return
	}
	defer func() {
		if err := sess.Close(ctx); err != nil {
			s.log.Warn().Err(err).Msg("mirror session close failed")
		}
	}()

	if err := sess.ImportAll(ctx, col); err != nil {
		s.log.Error().Err(err).Int("records", len(col)).Msg("mirror import failed")
		return
	}
	s.log.Info().Int("records", len(col)).Msg("collection mirrored")
}
