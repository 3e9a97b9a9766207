package site

import (
	"strings"
	"testing"
)

func TestLoadContent(t *testing.T) {
	content := mustLoadContent(t)

	if content.Brand.Name != "ezmode.games" {
		t.Errorf("expected brand name ezmode.games, got %q", content.Brand.Name)
	}
	if content.License != "AGPL-3.0" {
		t.Errorf("expected AGPL-3.0 license, got %q", content.License)
	}
	if content.FirstProductID() != "ctd" {
		t.Errorf("expected CTD to be the first product, got %q", content.FirstProductID())
	}

	var ids []string
	for _, s := range content.Policies.Sections {
		ids = append(ids, s.ID)
	}
	if got := strings.Join(ids, ","); got != "principles,bcorp,code-commitment,open-source" {
		t.Errorf("unexpected policy sections %q", got)
	}
}

func TestParseContent(t *testing.T) {
	testCases := []struct {
		name        string
		yaml        string
		errContains string
	}{
		{
			name: "minimal",
			yaml: `
brand: {name: example}
products:
  - {id: tool, name: Tool}
`,
		},
		{
			name:        "invalid yaml",
			yaml:        "brand: [",
			errContains: "failed to parse",
		},
		{
			name:        "missing brand",
			yaml:        "products: [{id: tool}]",
			errContains: "brand.name",
		},
		{
			name:        "no products",
			yaml:        "brand: {name: example}",
			errContains: "at least one product",
		},
		{
			name: "product without id",
			yaml: `
brand: {name: example}
products:
  - {name: Tool}
`,
			errContains: "has no id",
		},
		{
			name: "duplicate product id",
			yaml: `
brand: {name: example}
products:
  - {id: tool}
  - {id: tool}
`,
			errContains: "duplicate product id",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			content, err := ParseContent([]byte(tc.yaml))

			if tc.errContains == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if content.Brand.Language != "en" {
					t.Errorf("expected language to default to en, got %q", content.Brand.Language)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errContains) {
				t.Errorf("expected error containing %q, got %v", tc.errContains, err)
			}
		})
	}
}
