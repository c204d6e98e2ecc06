// Package render produces the service worker script precaching a file list.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// DefaultCacheName is the name of the cache the generated service worker opens.
const DefaultCacheName = "my-site-cache-v1"

const script = `// Service Worker code
const CACHE_NAME = {{ .CacheName }};
const urlsToCache = {{ .URLs }};

self.addEventListener('install', (event) => {
  event.waitUntil(
    caches.open(CACHE_NAME)
      .then((cache) => cache.addAll(urlsToCache))
  );
});

self.addEventListener('fetch', (event) => {
  event.respondWith(
    caches.match(event.request)
      .then((response) => {
        if (response) {
          return response;
        }
        return fetch(event.request).then(
          (response) => {
            if (!response || response.status !== 200 || response.type !== 'basic') {
              return response;
            }
            const responseToCache = response.clone();
            caches.open(CACHE_NAME)
              .then((cache) => {
                cache.put(event.request, responseToCache);
              });
            return response;
          }
        );
      })
  );
});
`

var tmpl = template.Must(template.New("service-worker").Parse(script))

// Renderer embeds file lists into the service worker template.
type Renderer struct {
	CacheName string
}

// Render returns the service worker script caching files.
func (r Renderer) Render(files []string) (string, error) {
	cacheName := r.CacheName
	if cacheName == "" {
		cacheName = DefaultCacheName
	}
	if files == nil {
		files = []string{}
	}

	name, err := literal(cacheName)
	if err != nil {
		return "", fmt.Errorf("couldn't encode cache name: %w", err)
	}
	urls, err := literal(files)
	if err != nil {
		return "", fmt.Errorf("couldn't encode file list: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct {
		CacheName string
		URLs      string
	}{name, urls}); err != nil {
		return "", fmt.Errorf("couldn't render service worker: %w", err)
	}

	return buf.String(), nil
}

// Render returns the service worker script caching files in the default cache.
func Render(files []string) (string, error) {
	return Renderer{}.Render(files)
}

// literal encodes v as JSON, which is a valid JavaScript literal.
func literal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}
