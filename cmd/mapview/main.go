// Command mapview loads shape files for a geographic window, selects shapes
// by attribute and draws the selections to a PNG.
//
//	mapview -ll -80.1,40.3 -ur -79.8,40.6 \
//	    -select 'type=motorway:edgecolor=orange,linewidth=2' \
//	    -select 'natural=water:facecolor=lightblue,zorder=3' \
//	    -out map.png roads.shp water.fgb
//
// With -serve the rendered map and a FlatGeobuf export of the loaded shapes
// are served over HTTP at /map.png and /data.fgb.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/color"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	mapview "github.com/tingold/orb-mapview"
)

type selectFlags []string

func (s *selectFlags) String() string { return strings.Join(*s, " ") }

func (s *selectFlags) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var (
		ll      = flag.String("ll", "", "lower-left corner as lon,lat")
		ur      = flag.String("ur", "", "upper-right corner as lon,lat")
		proj    = flag.String("proj", "merc", "projection: merc or cyl")
		fill    = flag.String("fill", "white", "base map fill color")
		out     = flag.String("out", "map.png", "PNG output path")
		export  = flag.String("export", "", "write the loaded shapes as FlatGeobuf to this path")
		noclip  = flag.Bool("noclip", false, "keep shapes outside the window")
		serve   = flag.String("serve", "", "serve /map.png and /data.fgb on this address instead of writing files")
		width   = flag.Int("width", 1024, "image width in pixels")
		height  = flag.Int("height", 768, "image height in pixels")
		verbose = flag.Bool("v", false, "log loading diagnostics")
		selects selectFlags
	)
	flag.Var(&selects, "select", "key=value:style selection, repeatable; style is k=v,k=v")
	flag.Parse()

	lowerLeft, err := parsePoint(*ll)
	if err != nil {
		log.Fatalf("Invalid -ll: %v", err)
	}
	upperRight, err := parsePoint(*ur)
	if err != nil {
		log.Fatalf("Invalid -ur: %v", err)
	}

	opts := mapview.DefaultOptions()
	opts.Projection = mapview.ProjectionKind(*proj)
	opts.Width, opts.Height = *width, *height
	if *verbose {
		opts.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	v, err := mapview.New(lowerLeft, upperRight, opts)
	if err != nil {
		log.Fatalf("Failed to create map view: %v", err)
	}

	for _, path := range flag.Args() {
		n, err := v.Load(path, !*noclip)
		if err != nil {
			log.Fatalf("Failed to load: %v", err)
		}
		log.Printf("Loaded %d shapes from %s", n, path)
	}

	for _, s := range selects {
		pred, style, err := parseSelect(s)
		if err != nil {
			log.Fatalf("Invalid -select %q: %v", s, err)
		}
		n := v.SelectWhere(pred, style)
		log.Printf("Selected %d shapes for %q", n, s)
	}

	base, err := mapview.ParseColor(*fill)
	if err != nil {
		log.Fatalf("Invalid -fill: %v", err)
	}

	surface, err := v.Draw(nil, color.NRGBA{R: base.R, G: base.G, B: base.B, A: base.A})
	if err != nil {
		log.Fatalf("Failed to draw: %v", err)
	}
	canvas := surface.(*mapview.Canvas)

	if *serve != "" {
		serveMap(*serve, v, canvas)
		return
	}

	if err := canvas.SavePNG(*out); err != nil {
		log.Fatalf("Failed to save %s: %v", *out, err)
	}
	log.Printf("Wrote %s", *out)

	if *export != "" {
		f, err := os.Create(*export)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *export, err)
		}
		if err := v.WriteFlatGeobuf(f, nil); err != nil {
			f.Close()
			log.Fatalf("Failed to export FlatGeobuf: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("Failed to close %s: %v", *export, err)
		}
		log.Printf("Wrote %s", *export)
	}
}

func serveMap(addr string, v *mapview.MapView, canvas *mapview.Canvas) {
	var png bytes.Buffer
	if err := canvas.EncodePNG(&png); err != nil {
		log.Fatalf("Failed to encode PNG: %v", err)
	}

	var fgb bytes.Buffer
	if v.Len() > 0 {
		if err := v.WriteFlatGeobuf(&fgb, nil); err != nil {
			log.Fatalf("Failed to create FlatGeobuf: %v", err)
		}
	}

	http.HandleFunc("/map.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(png.Bytes())
	})
	http.HandleFunc("/data.fgb", func(w http.ResponseWriter, r *http.Request) {
		if fgb.Len() == 0 {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Write(fgb.Bytes())
	})

	log.Println("Server starting on", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

func parsePoint(s string) (orb.Point, error) {
	lon, lat, ok := strings.Cut(s, ",")
	if !ok {
		return orb.Point{}, fmt.Errorf("%q is not lon,lat", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return orb.Point{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return orb.Point{}, err
	}
	return orb.Point{x, y}, nil
}

// parseSelect parses "key=value:style". The style follows the last colon,
// and only when it holds a k=v pair, so values may contain colons. A numeric
// value matches both the number and its text form.
func parseSelect(s string) (mapview.Predicate, mapview.Style, error) {
	cond, styleText := s, ""
	if i := strings.LastIndex(s, ":"); i >= 0 && strings.Contains(s[i+1:], "=") {
		cond, styleText = s[:i], s[i+1:]
	}
	key, raw, ok := strings.Cut(cond, "=")
	if !ok || key == "" {
		return nil, nil, fmt.Errorf("%q is not key=value", cond)
	}

	style, err := mapview.ParseStyle(styleText)
	if err != nil {
		return nil, nil, err
	}

	values := []mapview.Value{mapview.StringValue(raw)}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		values = append(values, mapview.NumberValue(f))
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		values = append(values, mapview.BoolValue(b))
	}
	return mapview.In(key, values...), style, nil
}
