package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vishnupprajapat/nextfast/internal/domain/catalog"
	"github.com/vishnupprajapat/nextfast/internal/domain/product"
	catalogUsecase "github.com/vishnupprajapat/nextfast/internal/service/catalog"
	"github.com/vishnupprajapat/nextfast/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCatalog struct {
	err error
}

func (s stubCatalog) Home(context.Context) (*catalog.Home, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.Home{
		Collections: []catalog.Collection{{
			ID: 1, Name: "Garden", Slug: "garden",
			Categories: []catalog.Category{{Slug: "seeds", Name: "Seeds", CollectionID: 1}},
		}},
		ProductCount: 1234,
	}, nil
}

func (s stubCatalog) Categories(context.Context) ([]catalog.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []catalog.Category{{Slug: "seeds", Name: "Seeds", CollectionID: 1, CollectionName: "Garden"}}, nil
}

func (s stubCatalog) SubcategoryProducts(_ context.Context, slug string) (*catalog.SubcategoryProducts, error) {
	if s.err != nil {
		return nil, s.err
	}
	if slug != "tomato-seeds" {
		return nil, catalogUsecase.ErrSubcategoryNotFound
	}
	return &catalog.SubcategoryProducts{
		Subcategory: catalog.Subcategory{Slug: slug, Name: "Tomato Seeds", CategorySlug: "seeds"},
		Products:    []product.Product{{Slug: "cherry", Name: "Cherry", Price: "2.50"}},
		Count:       1,
	}, nil
}

func newTestRouter(t *testing.T, svc stubCatalog) *gin.Engine {
	t.Helper()
	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	h := NewCatalogHandler(svc, zap.NewNop())
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/api/collections", h.Collections)
	r.GET("/api/subcategories/:slug/products", h.SubcategoryProducts)
	r.GET("/admin/categories", h.CategoriesPage)
	return r
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestCollections(t *testing.T) {
	w := serve(newTestRouter(t, stubCatalog{}), "/api/collections")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Success bool         `json:"success"`
		Data    catalog.Home `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data.ProductCount != 1234 {
		t.Fatalf("body = %+v", body)
	}
	if len(body.Data.Collections) != 1 || body.Data.Collections[0].Categories[0].Slug != "seeds" {
		t.Fatalf("collections = %+v", body.Data.Collections)
	}
}

func TestCollectionsFailure(t *testing.T) {
	w := serve(newTestRouter(t, stubCatalog{err: errors.New("connection refused")}), "/api/collections")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Fatal("internal error leaked")
	}
}

func TestSubcategoryProducts(t *testing.T) {
	r := newTestRouter(t, stubCatalog{})

	w := serve(r, "/api/subcategories/tomato-seeds/products")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Data catalog.SubcategoryProducts `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Count != 1 || body.Data.Products[0].Slug != "cherry" {
		t.Fatalf("data = %+v", body.Data)
	}

	w = serve(r, "/api/subcategories/ghost/products")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Subcategory not found") {
		t.Fatalf("missing subcategory = %d %s", w.Code, w.Body.String())
	}

	w = serve(newTestRouter(t, stubCatalog{err: errors.New("timeout")}), "/api/subcategories/tomato-seeds/products")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("store failure = %d", w.Code)
	}
}

func TestCategoriesPage(t *testing.T) {
	w := serve(newTestRouter(t, stubCatalog{}), "/admin/categories")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	for _, want := range []string{"Seeds", "Garden"} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("page does not contain %q", want)
		}
	}

	w = serve(newTestRouter(t, stubCatalog{err: errors.New("timeout")}), "/admin/categories")
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), "Failed to load categories") {
		t.Fatalf("failure page = %d", w.Code)
	}
}
