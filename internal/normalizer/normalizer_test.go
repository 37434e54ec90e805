package normalizer_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/normalizer"
)

const site = "https://example.com/"

func normalize(t *testing.T, p domain.Provider, raw string) domain.Record {
	t.Helper()

	rec, err := normalizer.Default(site).Normalize(p, json.RawMessage(raw))
	require.NoError(t, err)
	return rec
}

func TestBlog_FullPost(t *testing.T) {
	t.Parallel()

	rec := normalize(t, domain.ProviderBlog, `{
		"id": 7,
		"title": "Best AI Writers of 2024",
		"slug": "best-ai-writers",
		"excerpt": "Our picks",
		"content": "<p>Long form body about Jasper</p>",
		"category": "AI",
		"tags": ["writing", "reviews"],
		"author": {"name": "Jane Doe", "avatar": "/a.png"},
		"featured_image": "/img.png",
		"published_at": "2024-03-01T10:00:00Z",
		"status": "published"
	}`)

	assert.Equal(t, "7", rec.ID)
	assert.Equal(t, domain.ProviderBlog, rec.Provider)
	assert.Equal(t, "best-ai-writers", rec.Slug)
	assert.Equal(t, "Best AI Writers of 2024", rec.Title)
	assert.Equal(t, "AI", rec.Category)
	assert.Equal(t, []string{"writing", "reviews"}, rec.Tags)
	assert.Equal(t, &domain.Author{Name: "Jane Doe", Avatar: "/a.png"}, rec.Author)
	assert.Equal(t, "https://example.com/blog/best-ai-writers", rec.URL)
	assert.Equal(t, "/img.png", rec.Image)
	assert.Equal(t, "2024-03-01T10:00:00Z", rec.PublishedAt)
	assert.Contains(t, rec.SearchText, "Jasper")
	assert.False(t, rec.Hidden)
	assert.NotEmpty(t, rec.Raw)
}

func TestBlog_SanitySlugObjectAndStringAuthor(t *testing.T) {
	t.Parallel()

	rec := normalize(t, domain.ProviderBlog, `{
		"id": "p1",
		"title": "Ignored For Slug",
		"slug": {"_type": "slug", "current": "From Sanity"},
		"author": "Sam",
		"category": {"name": "Guides", "slug": "guides"}
	}`)

	assert.Equal(t, "from-sanity", rec.Slug)
	assert.Equal(t, "Sam", rec.AuthorName())
	assert.Equal(t, "Guides", rec.Category)
	assert.Equal(t, []string{}, rec.Tags)
}

func TestBlog_NonStringSlugNeverStringified(t *testing.T) {
	t.Parallel()

	rec := normalize(t, domain.ProviderBlog, `{"id": "p2", "title": "Hello World", "slug": {"weird": true}}`)
	assert.Equal(t, "hello-world", rec.Slug)
}

func TestBlog_DraftHidden(t *testing.T) {
	t.Parallel()

	rec := normalize(t, domain.ProviderBlog, `{"id": "p3", "title": "WIP", "status": "draft"}`)
	assert.True(t, rec.Hidden)
}

func TestNews_Article(t *testing.T) {
	t.Parallel()

	rec := normalize(t, domain.ProviderNews, `{
		"title": "OpenAI ships GPT-5",
		"description": "A new model",
		"url": "https://news.example/gpt5",
		"source": "TechDaily",
		"category": "technology",
		"language": "en",
		"country": "us",
		"published_at": "2024-05-01T08:00:00+00:00",
		"image": "https://news.example/gpt5.jpg"
	}`)

	assert.Equal(t, "https://news.example/gpt5", rec.ID)
	assert.Equal(t, "openai-ships-gpt-5", rec.Slug)
	assert.Equal(t, "TechDaily", rec.Source)
	assert.Equal(t, "TechDaily", rec.AuthorName())
	assert.Equal(t, "technology", rec.Category)
	assert.Equal(t, []string{}, rec.Tags)
	assert.Equal(t, "https://news.example/gpt5", rec.URL)
	assert.Equal(t, "OpenAI ships GPT-5 A new model", rec.SearchText)
}

func TestNews_NewsAPIShape(t *testing.T) {
	t.Parallel()

	rec := normalize(t, domain.ProviderNews, `{
		"title": "Chips",
		"url": "https://n.example/chips",
		"author": null,
		"source": {"id": "wired", "name": "Wired"},
		"publishedAt": "2024-01-02T00:00:00Z",
		"urlToImage": "https://n.example/c.jpg"
	}`)

	assert.Equal(t, "Wired", rec.Source)
	assert.Equal(t, "Wired", rec.AuthorName())
	assert.Equal(t, "2024-01-02T00:00:00Z", rec.PublishedAt)
	assert.Equal(t, "https://n.example/c.jpg", rec.Image)
}

func TestTool_AirtableRecord(t *testing.T) {
	t.Parallel()

	rec := normalize(t, domain.ProviderTools, `{
		"id": "recA1",
		"createdTime": "2023-11-05T12:00:00.000Z",
		"fields": {
			"Name": "Jasper AI",
			"Category": "Writing",
			"Description": "AI copywriter",
			"Highlight": "Best for marketers",
			"Features": "Templates, Brand voice",
			"Rating": 4.5,
			"Pricing": "Freemium",
			"Website": "https://jasper.example",
			"AffiliateLink": "https://jasper.example/?ref=site",
			"Type": "SaaS",
			"Logo": [{"url": "https://cdn.example/jasper.png"}],
			"Featured": true
		}
	}`)

	assert.Equal(t, "recA1", rec.ID)
	assert.Equal(t, "jasper-ai", rec.Slug)
	assert.Equal(t, "Jasper AI", rec.Title)
	assert.Equal(t, "Best for marketers", rec.Excerpt)
	assert.Equal(t, []string{"SaaS"}, rec.Tags)
	assert.Equal(t, "https://cdn.example/jasper.png", rec.Image)
	assert.True(t, rec.Featured)
	assert.False(t, rec.Hidden)
	assert.Equal(t, "https://example.com/tools/jasper-ai", rec.URL)
	assert.Equal(t, "2023-11-05T12:00:00.000Z", rec.PublishedAt)
	assert.Contains(t, rec.SearchText, "Brand voice")
	assert.Equal(t, "https://jasper.example/?ref=site", rec.Link)
	assert.Equal(t, map[string]string{"pricing": "Freemium", "rating": "4.5"}, rec.Details)
}

func TestTool_LinkFallsBackToWebsite(t *testing.T) {
	t.Parallel()

	rec := normalize(t, domain.ProviderTools,
		`{"id":"rec9","fields":{"Name":"Otter","Website":"https://otter.example","Domain":"otter.example"}}`)
	assert.Equal(t, "https://otter.example", rec.Link)
	assert.Nil(t, rec.Details)

	rec = normalize(t, domain.ProviderTools, `{"id":"rec9","fields":{"Name":"Otter","Domain":"otter.example"}}`)
	assert.Equal(t, "otter.example", rec.Link)
}

func TestTool_FlattenedRecord(t *testing.T) {
	t.Parallel()

	rec := normalize(t, domain.ProviderTools,
		`{"id":"recF1","Name":"Copy AI","category":"Writing","AffiliateLink":"https://copy.example","Badge":"New"}`)

	assert.Equal(t, "recF1", rec.ID)
	assert.Equal(t, "copy-ai", rec.Slug)
	assert.Equal(t, "Copy AI", rec.Title)
	assert.Equal(t, "Writing", rec.Category)
	assert.Equal(t, "https://copy.example", rec.Link)
	assert.Equal(t, map[string]string{"badge": "New"}, rec.Details)

	rec = normalize(t, domain.ProviderTools, `{"Name":"A","category":"AI"}`)
	assert.Equal(t, "a", rec.ID)
	assert.Equal(t, "a", rec.Slug)
	assert.Equal(t, "AI", rec.Category)
}

func TestBlog_NameFallsBackForTitle(t *testing.T) {
	t.Parallel()

	rec := normalize(t, domain.ProviderBlog, `{"Name":"GPT-4 Turbo!!","category":"AI"}`)
	assert.Equal(t, "GPT-4 Turbo!!", rec.Title)
	assert.Equal(t, "gpt-4-turbo", rec.Slug)
	assert.Equal(t, "gpt-4-turbo", rec.ID)
	assert.Equal(t, "AI", rec.Category)

	rec = normalize(t, domain.ProviderBlog, `{"id":"p1","title":"Title wins","name":"ignored"}`)
	assert.Equal(t, "Title wins", rec.Title)
}

func TestTool_SlugPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "explicit slug",
			raw:  `{"id":"rec1","fields":{"slug":"custom","CleanedName":"Clean","Name":"Name"}}`,
			want: "custom",
		},
		{
			name: "sanity slug object",
			raw:  `{"id":"rec1","fields":{"slug":{"current":"Obj Slug"},"Name":"Name"}}`,
			want: "obj-slug",
		},
		{
			name: "cleaned name",
			raw:  `{"id":"rec1","fields":{"CleanedName":"Copy AI","Name":"Copy.ai!"}}`,
			want: "copy-ai",
		},
		{
			name: "name",
			raw:  `{"id":"rec1","fields":{"Name":"Notion AI"}}`,
			want: "notion-ai",
		},
		{
			name: "record id",
			raw:  `{"id":"recXYZ","fields":{"Name":"???"}}`,
			want: "recxyz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, normalize(t, domain.ProviderTools, tt.raw).Slug)
		})
	}
}

func TestTool_ListFieldsAndHidden(t *testing.T) {
	t.Parallel()

	rec := normalize(t, domain.ProviderTools, `{
		"id": "rec2",
		"fields": {
			"Name": "Midjourney",
			"Category": ["Image", "Art"],
			"Tags": ["images", "", "art"],
			"Features": ["Upscaling", "Styles"],
			"DontShow": true
		}
	}`)

	assert.Equal(t, "Image", rec.Category)
	assert.Equal(t, []string{"images", "art"}, rec.Tags)
	assert.True(t, rec.Hidden)
}

func TestNormalize_MissingIdentityUsesSlug(t *testing.T) {
	t.Parallel()

	rec := normalize(t, domain.ProviderTools, `{"fields":{"Name":"Perplexity"}}`)
	assert.Equal(t, "perplexity", rec.ID)
	assert.Equal(t, "perplexity", rec.Slug)
}

func TestNormalize_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider domain.Provider
		raw      string
	}{
		{name: "blog without identity", provider: domain.ProviderBlog, raw: `{"excerpt":"orphan"}`},
		{name: "news without title or url", provider: domain.ProviderNews, raw: `{"description":"x"}`},
		{name: "tool with empty fields", provider: domain.ProviderTools, raw: `{"fields":{}}`},
		{name: "flat tool without name", provider: domain.ProviderTools, raw: `{"fields":null,"Category":"AI"}`},
		{name: "array payload", provider: domain.ProviderBlog, raw: `[1,2]`},
		{name: "string payload", provider: domain.ProviderNews, raw: `"hello"`},
		{name: "broken json", provider: domain.ProviderTools, raw: `{"id":`},
	}

	reg := normalizer.Default(site)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := reg.Normalize(tt.provider, json.RawMessage(tt.raw))
			require.ErrorIs(t, err, domain.ErrMalformedRecord)

			var malformed *domain.MalformedRecordError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.provider, malformed.Provider)
		})
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := normalizer.Default(site).Normalize(domain.Provider("podcasts"), json.RawMessage(`{}`))
	require.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestNormalize_RawIsCopied(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"id":"x","title":"T"}`)
	rec, err := normalizer.Blog{}.Normalize(raw)
	require.NoError(t, err)

	raw[2] = 'X'
	assert.JSONEq(t, `{"id":"x","title":"T"}`, string(rec.Raw))
}

func TestSiteURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com", normalizer.SiteURL(" https://example.com// "))
	assert.Empty(t, normalizer.SiteURL(""))
}
