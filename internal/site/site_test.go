package site

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/assets"
	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/render"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
}

func testBlog(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "pagesmith.yaml", "site:\n  title: Blog\n  base_url: https://example.com\n")
	writeFile(t, root, "theme/templates/page.html", `<html><body>{{ .content }}</body></html>`)
	writeFile(t, root, "theme/static/style.css", "body{}")
	writeFile(t, root, "static/style.css", "body{color:red}")
	writeFile(t, root, "content/index.md", "---\ntitle: Home\n---\nWelcome [in](/posts/first/)\n")
	writeFile(t, root, "content/posts/first.md", "---\ntitle: First\ndate: 2024-01-02\n---\nHello\n")
	writeFile(t, root, "content/posts/photo.png", "png")
	cfg, err := config.Load(root, "")
	require.NoError(t, err)
	return cfg
}

func TestSlot_PublishStatic_KeepsSite(t *testing.T) {
	slot := NewSlot()
	s := &render.Site{Generation: "g1", Pages: map[string]*render.Page{}}
	slot.Publish(Snapshot{Site: s, Static: assets.Files{"a": {}}})
	slot.PublishStatic(assets.Files{"b": {}})

	snap := slot.Load()
	require.Same(t, s, snap.Site)
	require.Contains(t, snap.Static, "b")
	require.NotContains(t, snap.Static, "a")
}

func TestSlot_ConcurrentReaders_SeeWholeGenerations(t *testing.T) {
	slot := NewSlot()
	mk := func(gen string) Snapshot {
		return Snapshot{
			Site:   &render.Site{Generation: gen, Sitemap: []byte(gen)},
			Static: assets.Files{gen: {}},
		}
	}
	slot.Publish(mk("g0"))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := slot.Load()
				gen := snap.Site.Generation
				if string(snap.Site.Sitemap) != gen {
					t.Errorf("sitemap from another generation: %s", gen)
				}
				if _, ok := snap.Static[gen]; !ok {
					t.Errorf("static files from another generation: %s", gen)
				}
			}
		}()
	}
	for i := range 200 {
		slot.Publish(mk("g" + string(rune('a'+i%26))))
	}
	close(stop)
	wg.Wait()
}

func TestBuilder_Full_BuildsSnapshot(t *testing.T) {
	cfg := testBlog(t)
	res, err := NewBuilder(cfg, Options{}).Build(context.Background(), ScopeFull)
	require.NoError(t, err)

	require.Equal(t, ScopeFull, res.Scope)
	require.NotNil(t, res.Metadata)
	s := res.Snapshot.Site
	require.Contains(t, s.Pages, "/")
	require.Contains(t, s.Pages, "posts/first/")
	require.Contains(t, s.Pages, "tags/")
	require.Contains(t, string(s.Pages["/"].HTML), `href="https://example.com/posts/first/"`)

	static := res.Snapshot.Static
	require.Equal(t, "body{color:red}", string(static["style.css"].Data))
	require.Contains(t, static, "posts/photo.png")
}

func TestBuilder_Static_SkipsPages(t *testing.T) {
	cfg := testBlog(t)
	res, err := NewBuilder(cfg, Options{}).Build(context.Background(), ScopeStatic)
	require.NoError(t, err)
	require.Nil(t, res.Snapshot.Site)
	require.Nil(t, res.Metadata)
	require.NotEmpty(t, res.Snapshot.Static)
}

func TestBuilder_Rebuild_SameDigest(t *testing.T) {
	cfg := testBlog(t)
	b := NewBuilder(cfg, Options{})
	m1, err := b.Metadata(context.Background())
	require.NoError(t, err)
	m2, err := b.Metadata(context.Background())
	require.NoError(t, err)
	require.Equal(t, m1.Digest(), m2.Digest())
}

func TestBuilder_GitDatesWithoutRepo_FallsBack(t *testing.T) {
	cfg := testBlog(t)
	cfg.Site.GitDates = true
	_, err := NewBuilder(cfg, Options{}).Metadata(context.Background())
	require.NoError(t, err)
}
