package patient

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

// fileRepo persists the collection as one JSON document mapping id to payload,
// written with 4-space indentation and stable field order so diffs stay
// readable. Save is a whole-file replace, not a transactional diff; a crash
// mid-write can corrupt the document. That risk is accepted for simplicity.
type fileRepo struct {
	path string
}

// NewFileRepo creates the durable file backend rooted at path.
func NewFileRepo(path string) CollectionRepository {
	return &fileRepo{path: path}
}

func (r *fileRepo) Load(_ context.Context) (Collection, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{}
		}
		return nil, &StorageError{Op: "load", Err: err}
	}

	var col Collection
	if err := json.Unmarshal(raw, &col); err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	if col == nil {
		col = Collection{}
	}
	return col, nil
}

func (r *fileRepo) Save(_ context.Context, col Collection) error {
	raw, err := json.MarshalIndent(col, "", "    ")
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}
