// Package catalog holds the read-only table of job postings the scorer ranks.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/rolematch/internal/domain/model"
)

// RoleCount is a target role with the number of postings carrying it.
type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// Catalog is an immutable set of postings with precomputed role popularity.
// It is safe for concurrent readers.
type Catalog struct {
	postings   []model.JobPosting
	popularity map[string]int
	roles      []RoleCount
	digest     string
}

// New validates postings and builds a Catalog. The slice is copied.
func New(postings []model.JobPosting) (*Catalog, error) {
	if len(postings) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		postings:   make([]model.JobPosting, len(postings)),
		popularity: make(map[string]int),
	}
	for i, p := range postings {
		if strings.TrimSpace(p.TargetRole) == "" {
			return nil, fmt.Errorf("posting %d: blank target role: %w", i, ErrInvalidPosting)
		}
		c.postings[i] = p
		c.popularity[p.TargetRole]++
	}

	h := sha256.New()
	for _, p := range c.postings {
		h.Write([]byte(p.CombinedFeatures))
		h.Write([]byte{0})
		h.Write([]byte(p.TargetRole))
		h.Write([]byte{0x1e})
	}
	c.digest = hex.EncodeToString(h.Sum(nil))

	c.roles = make([]RoleCount, 0, len(c.popularity))
	for role, n := range c.popularity {
		c.roles = append(c.roles, RoleCount{Role: role, Count: n})
	}
	sort.Slice(c.roles, func(i, j int) bool {
		if c.roles[i].Count != c.roles[j].Count {
			return c.roles[i].Count > c.roles[j].Count
		}
		return c.roles[i].Role < c.roles[j].Role
	})
	return c, nil
}

// Len returns the number of postings.
func (c *Catalog) Len() int { return len(c.postings) }

// Posting returns the posting at index i.
func (c *Catalog) Posting(i int) model.JobPosting { return c.postings[i] }

// Postings returns a copy of all postings in catalog order.
func (c *Catalog) Postings() []model.JobPosting {
	out := make([]model.JobPosting, len(c.postings))
	copy(out, c.postings)
	return out
}

// Documents returns the combined-feature text of every posting in order.
func (c *Catalog) Documents() []string {
	out := make([]string, len(c.postings))
	for i, p := range c.postings {
		out[i] = p.CombinedFeatures
	}
	return out
}

// Fingerprint identifies the catalog content: postings, their order and
// their roles. Two catalogs with equal fingerprints rank identically.
func (c *Catalog) Fingerprint() string { return c.digest }

// Popularity returns how many postings carry role.
func (c *Catalog) Popularity(role string) int { return c.popularity[role] }

// Roles returns distinct roles by descending count, ties alphabetical.
func (c *Catalog) Roles() []RoleCount {
	out := make([]RoleCount, len(c.roles))
	copy(out, c.roles)
	return out
}

// HasRole reports whether any posting carries role.
func (c *Catalog) HasRole(role string) bool {
	_, ok := c.popularity[role]
	return ok
}
