// Package manifest loads and validates the Grove manifest, the
// declarative description of the workspace's repositories, their remotes
// and their desired revisions.
package manifest

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/grovekit/grove/internal/errors"
)

// FileName is the manifest file name inside the manifest repository.
const FileName = "manifest.yml"

// DefaultBranch is assumed for repositories that pin neither a branch,
// a tag nor a commit.
const DefaultBranch = "master"

// Remote is a named URL associated with a repository. Names are unique
// within a repository's remote list.
type Remote struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Repo describes one repository of the workspace. It is immutable during
// a sync run and freely shared across workers.
type Repo struct {
	// Dest is the workspace-relative directory of the clone.
	Dest string
	// Remotes is the ordered, non-empty remote list; the first entry is
	// the primary remote.
	Remotes []Remote
	// Branch is the floating branch to track when neither Tag nor SHA1
	// pins the repository.
	Branch string
	// Tag pins the repository to a tag. Mutually exclusive with SHA1.
	Tag string
	// SHA1 pins the repository to an exact commit.
	SHA1 string
}

// Origin returns the primary remote.
func (r Repo) Origin() Remote {
	return r.Remotes[0]
}

// Ref returns the pinned ref (tag or commit hash) and true, or "" and
// false when the repository floats on a branch.
func (r Repo) Ref() (string, bool) {
	if r.Tag != "" {
		return r.Tag, true
	}
	if r.SHA1 != "" {
		return r.SHA1, true
	}
	return "", false
}

// Manifest is the parsed, validated manifest.
type Manifest struct {
	Repos []Repo
}

// rawRepo mirrors the YAML shape before normalization. A repository may
// declare a single "url" (shorthand for one remote named origin) or an
// explicit remote list, but not both.
type rawRepo struct {
	Dest    string   `yaml:"dest"`
	URL     string   `yaml:"url"`
	Remotes []Remote `yaml:"remotes"`
	Branch  string   `yaml:"branch"`
	Tag     string   `yaml:"tag"`
	SHA1    string   `yaml:"sha1"`
}

type rawManifest struct {
	Repos []rawRepo `yaml:"repos"`
}

// Load reads, validates and normalizes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewManifestError("failed to read manifest", err).WithFile(path)
	}
	m, err := Parse(data)
	if err != nil {
		var manifestErr *errors.ManifestError
		if errors.As(err, &manifestErr) {
			manifestErr.WithFile(path)
		}
		return nil, err
	}
	return m, nil
}

// Parse validates the YAML document against the manifest schema, then
// decodes and normalizes it.
func Parse(data []byte) (*Manifest, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewManifestError("failed to parse manifest", err)
	}

	m := &Manifest{Repos: make([]Repo, 0, len(raw.Repos))}
	seen := make(map[string]bool, len(raw.Repos))
	for _, r := range raw.Repos {
		repo, err := normalize(r)
		if err != nil {
			return nil, err
		}
		if seen[repo.Dest] {
			return nil, errors.NewManifestError("duplicate dest", nil).WithDest(repo.Dest)
		}
		seen[repo.Dest] = true
		m.Repos = append(m.Repos, repo)
	}
	return m, nil
}

func normalize(r rawRepo) (Repo, error) {
	repo := Repo{
		Dest:   r.Dest,
		Branch: r.Branch,
		Tag:    r.Tag,
		SHA1:   r.SHA1,
	}

	switch {
	case r.URL != "" && len(r.Remotes) > 0:
		return Repo{}, errors.NewManifestError("url and remotes are mutually exclusive", nil).
			WithDest(r.Dest)
	case r.URL != "":
		repo.Remotes = []Remote{{Name: "origin", URL: r.URL}}
	case len(r.Remotes) > 0:
		repo.Remotes = r.Remotes
	default:
		return Repo{}, errors.NewManifestError("missing url or remotes", nil).WithDest(r.Dest)
	}

	names := make(map[string]bool, len(repo.Remotes))
	for _, remote := range repo.Remotes {
		if names[remote.Name] {
			return Repo{}, errors.NewManifestError(
				fmt.Sprintf("duplicate remote %q", remote.Name), nil).WithDest(r.Dest)
		}
		names[remote.Name] = true
	}

	if repo.Tag != "" && repo.SHA1 != "" {
		return Repo{}, errors.NewManifestError("tag and sha1 are mutually exclusive", nil).
			WithDest(r.Dest)
	}
	if repo.Branch == "" {
		repo.Branch = DefaultBranch
	}

	return repo, nil
}

// schemaJSON is the structural contract of the manifest file. Semantic
// invariants (uniqueness, mutual exclusions) are checked after decoding.
const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["repos"],
  "additionalProperties": false,
  "properties": {
    "repos": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["dest"],
        "additionalProperties": false,
        "properties": {
          "dest": {"type": "string", "minLength": 1},
          "url": {"type": "string", "minLength": 1},
          "remotes": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["name", "url"],
              "additionalProperties": false,
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "url": {"type": "string", "minLength": 1}
              }
            }
          },
          "branch": {"type": "string"},
          "tag": {"type": "string"},
          "sha1": {"type": "string", "pattern": "^[0-9a-f]{40}$"}
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("manifest.json", strings.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile("manifest.json")
	})
	return schema, schemaErr
}

func validateSchema(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return errors.NewManifestError("failed to compile manifest schema", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.NewManifestError("failed to parse manifest", err)
	}
	if err := sch.Validate(doc); err != nil {
		return errors.NewManifestError("manifest does not match schema", err)
	}
	return nil
}
