// Package seed loads profiles and postings from YAML files into the service.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/talent"
	"github.com/spigell/hh-matcher/internal/workflow"
)

const DefaultPattern = "seed/**/*.yaml"

var ErrNoFiles = errors.New("no seed files found")

// Target receives the seeded records.
type Target interface {
	UploadProfile(ctx context.Context, ownerID, text string) (*talent.Profile, error)
	PostPosting(ctx context.Context, sub talent.Submission) (*talent.Posting, error)
}

// Progress is advanced once per stored record.
type Progress interface {
	Add(n int) error
}

type ProfileSeed struct {
	OwnerID string `yaml:"owner_id"`
	Text    string `yaml:"text"`
}

// File is the layout of one seed file.
type File struct {
	Profiles []ProfileSeed       `yaml:"profiles"`
	Postings []talent.Submission `yaml:"postings"`
}

// Bundle is the content of every loaded file, in file order.
type Bundle struct {
	Files    []string
	Profiles []ProfileSeed
	Postings []talent.Submission
}

func (b *Bundle) Len() int { return len(b.Profiles) + len(b.Postings) }

// Discover expands the glob patterns (with ** support) into a sorted list of
// distinct files.
func Discover(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}

	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
		files = append(files, matches...)
	}

	slices.Sort(files)
	files = slices.Compact(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w for %v", ErrNoFiles, patterns)
	}
	return files, nil
}

// Load decodes every file. Unknown keys are rejected.
func Load(paths []string) (*Bundle, error) {
	b := &Bundle{}
	for _, path := range paths {
		f, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		b.Files = append(b.Files, path)
		b.Profiles = append(b.Profiles, f.Profiles...)
		b.Postings = append(b.Postings, f.Postings...)
	}
	return b, nil
}

func decodeFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer fh.Close()

	dec := yaml.NewDecoder(fh)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &f, nil
}

// Store uploads the profiles and then posts the postings. It stops at the
// first failure and returns how many records were stored before it.
func Store(ctx context.Context, target Target, b *Bundle, progress Progress) (int, error) {
	stored := 0
	advance := func() {
		stored++
		if progress != nil {
			_ = progress.Add(1)
		}
	}

	for i, p := range b.Profiles {
		if _, err := target.UploadProfile(ctx, p.OwnerID, p.Text); err != nil {
			return stored, fmt.Errorf("profile #%d (owner %q): %w", i+1, p.OwnerID, err)
		}
		advance()
	}
	for i, sub := range b.Postings {
		if _, err := target.PostPosting(ctx, sub); err != nil {
			return stored, fmt.Errorf("posting #%d (%q): %w", i+1, sub.Title, err)
		}
		advance()
	}
	return stored, nil
}

// Importer wires discovery, loading and storing into workflow steps.
type Importer struct {
	Target Target
	// NewProgress builds the progress reporter once the record count is known.
	NewProgress func(total int) Progress
	Logger      *zap.Logger
}

// Steps returns the discover, load and store steps for the given patterns.
func (im *Importer) Steps(patterns []string) []workflow.Step {
	log := logger.Component(im.Logger, "seed")

	var (
		files  []string
		bundle *Bundle
	)

	return []workflow.Step{
		{
			Name: "discover",
			Run: func(context.Context) (string, error) {
				var err error
				files, err = Discover(patterns)
				if err != nil {
					return "", err
				}
				log.Debug("seed files discovered", zap.Strings("files", files))
				return fmt.Sprintf("%d files", len(files)), nil
			},
		},
		{
			Name: "load",
			Run: func(context.Context) (string, error) {
				var err error
				bundle, err = Load(files)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d profiles, %d postings", len(bundle.Profiles), len(bundle.Postings)), nil
			},
		},
		{
			Name: "store",
			Run: func(ctx context.Context) (string, error) {
				var progress Progress
				if im.NewProgress != nil {
					progress = im.NewProgress(bundle.Len())
				}
				n, err := Store(ctx, im.Target, bundle, progress)
				log.Info("seed records stored", zap.Int("stored", n), zap.Int("total", bundle.Len()))
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d records stored", n), nil
			},
		},
	}
}
