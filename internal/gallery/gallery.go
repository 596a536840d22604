// Package gallery renders the static preview page pairing each share URL with
// its extracted thumbnail.
package gallery

import (
	"html/template"
	"io"
)

// DefaultTitle is the page heading.
const DefaultTitle = "Douyin Video Gallery"

// Pair is one card: the share page and its thumbnail, numbered from 1.
type Pair struct {
	Number    int
	Video     string
	Thumbnail string
}

// Page is the render model.
type Page struct {
	Title  string
	Pairs  []Pair
	Videos int
	Thumbs int
}

// Mismatch reports whether the two input lists differ in length.
func (p Page) Mismatch() bool { return p.Videos != p.Thumbs }

// Build zips videos and thumbnails by position, truncating to the shorter list.
func Build(videos, thumbnails []string) Page {
	n := min(len(videos), len(thumbnails))
	p := Page{Title: DefaultTitle, Videos: len(videos), Thumbs: len(thumbnails), Pairs: make([]Pair, 0, n)}
	for i := 0; i < n; i++ {
		p.Pairs = append(p.Pairs, Pair{Number: i + 1, Video: videos[i], Thumbnail: thumbnails[i]})
	}
	return p
}

// Render writes the HTML document for p.
func Render(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}

var pageTemplate = template.Must(template.New("gallery").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background-color: #0a0a0a;
            color: #ffffff;
            margin: 0;
            padding: 20px;
        }
        h1 {
            text-align: center;
            color: #fe2c55;
            margin-bottom: 30px;
            font-size: 2.5em;
        }
        .gallery {
            display: grid;
            grid-template-columns: repeat(4, 1fr);
            gap: 20px;
            max-width: 1400px;
            margin: 0 auto;
        }
        .video-card {
            position: relative;
            border-radius: 12px;
            overflow: hidden;
            background-color: #161823;
            transition: transform 0.2s ease;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.3);
        }
        .video-card:hover {
            transform: scale(1.05);
            box-shadow: 0 8px 16px rgba(0, 0, 0, 0.4);
        }
        .video-card a {
            display: block;
            text-decoration: none;
        }
        .video-card img {
            width: 100%;
            height: auto;
            display: block;
            aspect-ratio: 9/16;
            object-fit: cover;
        }
        .video-info {
            padding: 12px;
            background-color: #161823;
        }
        .video-number {
            color: #8a8b91;
            font-size: 0.9em;
            margin-bottom: 4px;
        }
        .video-link {
            color: #fe2c55;
            font-size: 0.85em;
            word-break: break-all;
            opacity: 0.8;
        }
        .no-videos, .stats {
            text-align: center;
            color: #8a8b91;
        }
        .no-videos {
            font-size: 1.2em;
            margin-top: 50px;
        }
        .stats {
            margin-bottom: 30px;
            font-size: 1.1em;
        }
        .mismatch {
            text-align: center;
            color: #f5a623;
            margin-bottom: 20px;
        }
        @media (max-width: 1200px) {
            .gallery { grid-template-columns: repeat(3, 1fr); }
        }
        @media (max-width: 900px) {
            .gallery { grid-template-columns: repeat(2, 1fr); gap: 15px; }
        }
        @media (max-width: 600px) {
            .gallery { grid-template-columns: repeat(2, 1fr); gap: 10px; }
            h1 { font-size: 1.8em; }
        }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
{{- if .Mismatch}}
    <div class="mismatch">Found {{.Videos}} video URLs but {{.Thumbs}} thumbnails; showing only videos with thumbnails.</div>
{{- end}}
{{- if .Pairs}}
    <div class="stats">Showing {{len .Pairs}} videos</div>
    <div class="gallery">
{{- range .Pairs}}
        <div class="video-card">
            <a href="{{.Video}}" target="_blank" rel="noopener noreferrer">
                <img src="{{.Thumbnail}}" alt="Video {{.Number}}" loading="lazy">
                <div class="video-info">
                    <div class="video-number">Video #{{.Number}}</div>
                    <div class="video-link">{{.Video}}</div>
                </div>
            </a>
        </div>
{{- end}}
    </div>
{{- else}}
    <div class="no-videos">No videos to display. Please run the thumbnail extractor first.</div>
{{- end}}
</body>
</html>
`
