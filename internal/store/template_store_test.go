package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nhle/contenthub/internal/model"
	"github.com/nhle/contenthub/internal/store"
	"github.com/nhle/contenthub/internal/testutil"
)

const seededCount = 3

func TestTemplateSeedingIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.EnsureTemplatesSeeded(ctx); err != nil {
			t.Fatalf("EnsureTemplatesSeeded: %v", err)
		}
		templates, err := s.ListTemplates(ctx)
		if err != nil {
			t.Fatalf("ListTemplates: %v", err)
		}
		if len(templates) != seededCount {
			t.Fatalf("call %d: %d templates, want %d", i, len(templates), seededCount)
		}
	}

	for i := 0; i < 2; i++ {
		if _, err := s.CreateTemplate(ctx, store.NewTemplate{Name: "Custom", Body: "body"}); err != nil {
			t.Fatalf("CreateTemplate: %v", err)
		}
	}
	templates, err := s.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(templates) != seededCount+2 {
		t.Fatalf("templates = %d, want %d", len(templates), seededCount+2)
	}
}

func TestCreateTemplateValidation(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   store.NewTemplate
	}{
		{"short name", store.NewTemplate{Name: "ab", Body: "x"}},
		{"blank body", store.NewTemplate{Name: "Name", Body: "   "}},
		{"long category", store.NewTemplate{Name: "Name", Body: "x", Category: testutil.Ptr(string(make([]byte, 51)))}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.CreateTemplate(ctx, tc.in); !errors.Is(err, model.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}

	created, err := s.CreateTemplate(ctx, store.NewTemplate{Name: " Outro ", Body: "Thanks for watching", Category: testutil.Ptr("  ")})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if created.Name != "Outro" || created.Category != nil || created.Favorite || created.RatingCount != 0 {
		t.Fatalf("created = %+v", created)
	}
	if created.Rating() != nil {
		t.Fatalf("fresh template has rating %v", *created.Rating())
	}
}

func TestRateTemplateAggregates(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	tpl, err := s.CreateTemplate(ctx, store.NewTemplate{Name: "Rated", Body: "body"})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	tpl, err = s.RateTemplate(ctx, tpl.ID, 4)
	if err != nil {
		t.Fatalf("RateTemplate 4: %v", err)
	}
	if tpl.RatingCount != 1 || tpl.Rating() == nil || *tpl.Rating() != 4.00 {
		t.Fatalf("after one rating: count=%d rating=%v", tpl.RatingCount, tpl.Rating())
	}

	tpl, err = s.RateTemplate(ctx, tpl.ID, 5)
	if err != nil {
		t.Fatalf("RateTemplate 5: %v", err)
	}
	if tpl.RatingCount != 2 || *tpl.Rating() != 4.50 {
		t.Fatalf("after two ratings: count=%d rating=%v", tpl.RatingCount, *tpl.Rating())
	}

	for _, bad := range []int{0, 6, -1} {
		if _, err := s.RateTemplate(ctx, tpl.ID, bad); !errors.Is(err, model.ErrValidation) {
			t.Errorf("rating %d: err = %v", bad, err)
		}
	}
	if _, err := s.RateTemplate(ctx, "missing", 3); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("missing template: err = %v", err)
	}

	got, err := s.GetTemplate(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	if got.RatingSum != 9 || got.RatingCount != 2 {
		t.Fatalf("invalid ratings changed counters: %+v", got)
	}
}

func TestListTemplatesOrdering(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	low, err := s.CreateTemplate(ctx, store.NewTemplate{Name: "Low", Body: "x"})
	if err != nil {
		t.Fatalf("create low: %v", err)
	}
	high, err := s.CreateTemplate(ctx, store.NewTemplate{Name: "High", Body: "x"})
	if err != nil {
		t.Fatalf("create high: %v", err)
	}
	fav, err := s.CreateTemplate(ctx, store.NewTemplate{Name: "Fav", Body: "x"})
	if err != nil {
		t.Fatalf("create fav: %v", err)
	}

	if _, err := s.RateTemplate(ctx, low.ID, 2); err != nil {
		t.Fatalf("rate low: %v", err)
	}
	if _, err := s.RateTemplate(ctx, high.ID, 5); err != nil {
		t.Fatalf("rate high: %v", err)
	}
	if _, err := s.SetTemplateFavorite(ctx, fav.ID, true); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	templates, err := s.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(templates) != seededCount+3 {
		t.Fatalf("templates = %d", len(templates))
	}

	order := []string{templates[0].ID, templates[1].ID, templates[2].ID}
	want := []string{fav.ID, high.ID, low.ID}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("position %d = %s, want %s", i, templates[i].Name, want[i])
		}
	}

	// Unrated templates follow in creation order: seeds first.
	for _, tpl := range templates[3:] {
		if tpl.RatingCount != 0 || tpl.Favorite {
			t.Fatalf("unexpected rated/favorite template in tail: %+v", tpl)
		}
	}
	for i := 4; i < len(templates); i++ {
		if templates[i].CreatedAt.Before(templates[i-1].CreatedAt) {
			t.Fatalf("tail not in creation order at %d", i)
		}
	}
}

func TestUpdateTemplatePartial(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	tpl, err := s.CreateTemplate(ctx, store.NewTemplate{Name: "Draft", Body: "first", Category: testutil.Ptr("Hooks")})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	updated, err := s.UpdateTemplate(ctx, tpl.ID, model.TemplatePatch{Body: model.Set("second")})
	if err != nil {
		t.Fatalf("UpdateTemplate: %v", err)
	}
	if updated.Body != "second" || updated.Name != "Draft" || updated.Category == nil || *updated.Category != "Hooks" {
		t.Fatalf("updated = %+v", updated)
	}
	if updated.UpdatedAt.Before(tpl.UpdatedAt) {
		t.Fatalf("updated_at went backwards")
	}

	cleared, err := s.UpdateTemplate(ctx, tpl.ID, model.TemplatePatch{Category: model.Set[*string](nil)})
	if err != nil {
		t.Fatalf("clear category: %v", err)
	}
	if cleared.Category != nil {
		t.Fatalf("category = %q", *cleared.Category)
	}

	if _, err := s.UpdateTemplate(ctx, tpl.ID, model.TemplatePatch{Name: model.Set("x")}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("short name: err = %v", err)
	}
	if _, err := s.SetTemplateFavorite(ctx, "missing", true); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("missing: err = %v", err)
	}
}
