package service

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"neuraslide/internal/models"
	"neuraslide/internal/repository"
)

// fakeProductRepo implements only what Search touches; the embedded interface
// panics on anything else, which is exactly what a test wants.
type fakeProductRepo struct {
	repository.ProductRepository
	candidates []*models.Product
	searchErr  error
	bumpedIDs  []int64
}

func (f *fakeProductRepo) SearchCandidates(userID int64, query string) ([]*models.Product, error) {
	return f.candidates, f.searchErr
}

func (f *fakeProductRepo) IncrementSearchCounts(ids []int64) error {
	f.bumpedIDs = ids
	return nil
}

func TestRelevanceScore(t *testing.T) {
	t.Run("name match dominates", func(t *testing.T) {
		named := &models.Product{Name: "Running shoe"}
		described := &models.Product{Name: "Trainer", Description: "a light shoe", Category: "shoes", Tags: []string{"shoe"}}
		if RelevanceScore(named, "running shoe") <= 0 {
			t.Fatal("expected a positive score for a name match")
		}
		if got := RelevanceScore(named, "shoe"); got != 10 {
			t.Fatalf("name-only match should score 10, got %v", got)
		}
		// description 5 + category 3 + tag 2 = 10, equal to a bare name hit
		if got := RelevanceScore(described, "shoe"); got != 10 {
			t.Fatalf("description+category+tag should score 10, got %v", got)
		}
	})

	t.Run("only first tag match counts", func(t *testing.T) {
		p := &models.Product{Tags: []string{"shoe", "shoes", "shoelace"}}
		if got := RelevanceScore(p, "shoe"); got != 2 {
			t.Fatalf("multiple tag hits must score once, got %v", got)
		}
	})

	t.Run("popularity is capped", func(t *testing.T) {
		quiet := &models.Product{Name: "shoe"}
		popular := &models.Product{Name: "shoe", SearchCount: 1 << 20}
		if got := RelevanceScore(popular, "shoe"); got != 15 {
			t.Fatalf("popularity term must cap at 5, got %v", got-10)
		}
		if RelevanceScore(quiet, "shoe") != 10 {
			t.Fatal("zero search_count must add nothing")
		}
	})

	t.Run("name match beats popularity", func(t *testing.T) {
		shoe := &models.Product{Name: "Running Shoe", SearchCount: 5}
		hat := &models.Product{Name: "Hat", Description: "red shoe box", SearchCount: 100}
		if RelevanceScore(shoe, "shoe") <= RelevanceScore(hat, "shoe") {
			t.Fatal("a name match must outrank a popular description match")
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		p := &models.Product{Name: "RUNNING SHOE"}
		if got := RelevanceScore(p, "Shoe"); got != 10 {
			t.Fatalf("expected case-insensitive match, got %v", got)
		}
	})

	t.Run("no match scores only popularity", func(t *testing.T) {
		p := &models.Product{Name: "Mug", SearchCount: 1}
		if got := RelevanceScore(p, "shoe"); got != 1 {
			t.Fatalf("expected log2(2)=1, got %v", got)
		}
	})
}

func TestSearchRanksAndBumpsCounts(t *testing.T) {
	repo := &fakeProductRepo{candidates: []*models.Product{
		{ID: 1, Name: "Coffee mug", Description: "includes a shoe print"},
		{ID: 2, Name: "Running shoe", Category: "shoes"},
		{ID: 3, Name: "Shoe rack", Tags: []string{"shoes"}},
	}}
	svc := NewProductService(repo, zap.NewNop())

	scored, err := svc.Search(7, "shoe", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(scored) != 2 {
		t.Fatalf("expected the list trimmed to limit 2, got %d", len(scored))
	}
	if scored[0].Product.ID != 2 {
		t.Fatalf("expected name+category match first, got product %d", scored[0].Product.ID)
	}
	if scored[1].Product.ID != 3 {
		t.Fatalf("expected name+tag match second, got product %d", scored[1].Product.ID)
	}
	if len(repo.bumpedIDs) != 2 || repo.bumpedIDs[0] != 2 || repo.bumpedIDs[1] != 3 {
		t.Fatalf("expected search counts bumped for returned hits, got %v", repo.bumpedIDs)
	}
}

func TestSearchStableTieOrder(t *testing.T) {
	// Same score: the repository's newest-first order must survive sorting.
	repo := &fakeProductRepo{candidates: []*models.Product{
		{ID: 10, Name: "Shoe A"},
		{ID: 11, Name: "Shoe B"},
		{ID: 12, Name: "Shoe C"},
	}}
	svc := NewProductService(repo, zap.NewNop())

	scored, err := svc.Search(7, "shoe", 10)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []int64{10, 11, 12} {
		if scored[i].Product.ID != want {
			t.Fatalf("tie order changed: position %d has product %d", i, scored[i].Product.ID)
		}
	}
}

func TestSearchRepositoryError(t *testing.T) {
	repo := &fakeProductRepo{searchErr: errors.New("db down")}
	svc := NewProductService(repo, zap.NewNop())

	if _, err := svc.Search(7, "shoe", 10); err == nil {
		t.Fatal("expected error")
	}
}
