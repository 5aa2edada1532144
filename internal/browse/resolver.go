package browse

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/callback"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
)

// maxCategoryID keeps "select_category_<id>" within the 64-byte callback
// data limit.
const maxCategoryID = 64 - len("select_category_")

// CategoryID returns the payload id for a category name. Names that do not
// fit are replaced by a short hash prefixed with '~'.
func CategoryID(name string) string {
	if len(name) <= maxCategoryID && !strings.HasPrefix(name, "~") {
		return name
	}
	sum := sha1.Sum([]byte(name))
	return "~" + hex.EncodeToString(sum[:])[:10]
}

// CategoryItems turns category names into catalog items.
func CategoryItems(names []string) []catalog.Item {
	items := make([]catalog.Item, 0, len(names))
	for _, n := range names {
		items = append(items, catalog.Item{ID: CategoryID(n), Name: n})
	}
	return items
}

// Info describes how a domain is browsed.
type Info struct {
	Prompt   string
	Filter   media.FilterKey
	Kind     media.Kind
	Category media.CategoryType // empty for static domains
	Empty    string             // reply when the domain has no items
	NoMedia  string             // reply when an item has no records
}

var infos = map[callback.Domain]Info{
	callback.DomainEvents: {
		Prompt:  "Choose an event:",
		Filter:  media.FilterEvent,
		Kind:    media.KindPhoto,
		Empty:   "No events are configured.",
		NoMedia: "No photos found for this event yet.",
	},
	callback.DomainClasses: {
		Prompt:  "Choose a class:",
		Filter:  media.FilterClass,
		Kind:    media.KindPhoto,
		Empty:   "No classes are configured.",
		NoMedia: "No photos found for this class yet.",
	},
	callback.DomainOther: {
		Prompt:   "Choose a category:",
		Filter:   media.FilterCategory,
		Kind:     media.KindPhoto,
		Category: media.CategoryOtherPhoto,
		Empty:    `No "Other" photos have been added yet.`,
		NoMedia:  "No photos found for this category.",
	},
	callback.DomainVideos: {
		Prompt:   "Choose a video category:",
		Filter:   media.FilterCategory,
		Kind:     media.KindVideo,
		Category: media.CategoryVideo,
		Empty:    "No videos have been added yet.",
		NoMedia:  "No videos found for this category.",
	},
}

// Describe returns the browse description of a domain.
func Describe(d callback.Domain) (Info, bool) {
	info, ok := infos[d]
	return info, ok
}

// Resolver maps domains to their current item lists. Static domains come
// from the catalog; category domains are fetched from the store on every
// call so new categories appear without a restart.
type Resolver struct {
	catalog *catalog.Catalog
	store   media.Store
}

// NewResolver creates a Resolver.
func NewResolver(cat *catalog.Catalog, store media.Store) *Resolver {
	return &Resolver{catalog: cat, store: store}
}

// Items returns the items of a domain.
func (r *Resolver) Items(ctx context.Context, d callback.Domain) ([]catalog.Item, error) {
	switch d {
	case callback.DomainEvents:
		return r.catalog.Events, nil
	case callback.DomainClasses:
		return r.catalog.Classes, nil
	case callback.DomainOther:
		return r.Categories(ctx, media.CategoryOtherPhoto)
	case callback.DomainVideos:
		return r.Categories(ctx, media.CategoryVideo)
	}
	return nil, fmt.Errorf("unknown domain %q", d)
}

// Categories returns the distinct categories stored for a category type.
func (r *Resolver) Categories(ctx context.Context, ct media.CategoryType) ([]catalog.Item, error) {
	names, err := r.store.DistinctCategories(ctx, ct)
	if err != nil {
		return nil, err
	}
	return CategoryItems(names), nil
}

// Resolve maps a selected id back to its item.
func (r *Resolver) Resolve(ctx context.Context, d callback.Domain, id string) (catalog.Item, bool, error) {
	items, err := r.Items(ctx, d)
	if err != nil {
		return catalog.Item{}, false, err
	}
	it, ok := catalog.Find(items, id)
	return it, ok, nil
}

// Catalog returns the static catalog.
func (r *Resolver) Catalog() *catalog.Catalog { return r.catalog }
