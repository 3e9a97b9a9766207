package site

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content/site.yaml
var defaultContent []byte

// Content is the copy shown on every page
type Content struct {
	Brand    Brand     `yaml:"brand"`
	Hero     Hero      `yaml:"hero"`
	Links    Links     `yaml:"links"`
	License  string    `yaml:"license"`
	Products []Product `yaml:"products"`
	Policies Policies  `yaml:"policies"`
}

type Brand struct {
	Name        string `yaml:"name"`
	Prefix      string `yaml:"prefix"`
	Suffix      string `yaml:"suffix"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
}

type Hero struct {
	Lead        string `yaml:"lead"`
	Highlight   string `yaml:"highlight"`
	Trail       string `yaml:"trail"`
	Subtitle    string `yaml:"subtitle"`
	ScrollLabel string `yaml:"scrollLabel"`
}

type Links struct {
	GitHub  string `yaml:"github"`
	Discord string `yaml:"discord"`
}

// Product is one tool section on the landing page
type Product struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Title     string    `yaml:"title"`
	Summary   string    `yaml:"summary"`
	ShowGames bool      `yaml:"showGames"`
	Features  []Feature `yaml:"features"`
}

type Feature struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type Policies struct {
	Title    string          `yaml:"title"`
	Intro    string          `yaml:"intro"`
	Sections []PolicySection `yaml:"sections"`
}

type PolicySection struct {
	ID         string   `yaml:"id"`
	Heading    string   `yaml:"heading"`
	Paragraphs []string `yaml:"paragraphs"`
}

// LoadContent parses the embedded site copy
func LoadContent() (*Content, error) {
	return ParseContent(defaultContent)
}

// ParseContent parses site copy from YAML and checks the fields every page needs
func ParseContent(data []byte) (*Content, error) {
	var content Content
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to parse site content: %w", err)
	}

	if content.Brand.Name == "" {
		return nil, fmt.Errorf("site content: brand.name is required")
	}
	if len(content.Products) == 0 {
		return nil, fmt.Errorf("site content: at least one product is required")
	}

	seen := make(map[string]bool)
	for _, p := range content.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("site content: product %q has no id", p.Name)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("site content: duplicate product id %q", p.ID)
		}
		seen[p.ID] = true
	}

	if content.Brand.Language == "" {
		content.Brand.Language = "en"
	}

	return &content, nil
}

// FirstProductID is the anchor the hero scroll link points at
func (c *Content) FirstProductID() string {
	return c.Products[0].ID
}
