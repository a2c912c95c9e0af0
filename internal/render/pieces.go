package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/park285/herogrid/internal/herogrid"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

type pieceCacheKey struct {
	seat      herogrid.Seat
	archetype herogrid.Archetype
	size      int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceCacheMu sync.RWMutex
)

// 말 아이콘은 파일 대신 코드로 만든 SVG를 쓴다 (진영 색 원반 + 아키타입 문양)
const pieceSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" width="100" height="100">
<circle cx="50" cy="52" r="40" fill="#000000" fill-opacity="0.25"/>
<circle cx="50" cy="48" r="40" fill="%s" stroke="%s" stroke-width="4"/>
%s
</svg>`

func pieceGlyph(a herogrid.Archetype, ink string) string {
	switch a {
	case herogrid.StraightHero:
		return fmt.Sprintf(`<path d="M50 22 L50 74 M24 48 L76 48" fill="none" stroke="%s" stroke-width="10" stroke-linecap="round"/>`, ink)
	case herogrid.DiagonalHero:
		return fmt.Sprintf(`<path d="M31 29 L69 67 M69 29 L31 67" fill="none" stroke="%s" stroke-width="10" stroke-linecap="round"/>`, ink)
	default:
		return fmt.Sprintf(`<circle cx="50" cy="48" r="11" fill="%s"/>`, ink)
	}
}

func pieceDocument(seat herogrid.Seat, a herogrid.Archetype) []byte {
	fill, stroke := "#c0504d", "#f6e3e2"
	if seat == herogrid.SeatB {
		fill, stroke = "#3c78c8", "#e1ecfa"
	}
	return []byte(fmt.Sprintf(pieceSVG, fill, stroke, pieceGlyph(a, stroke)))
}

func renderPieceImage(p herogrid.Piece, size int) (image.Image, error) {
	key := pieceCacheKey{seat: p.Seat, archetype: p.Archetype, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	icon, err := oksvg.ReadIconStream(bytes.NewReader(pieceDocument(p.Seat, p.Archetype)))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg %s: %w", p.ID, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()

	return img, nil
}
