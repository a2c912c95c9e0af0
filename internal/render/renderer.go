package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strconv"
	"strings"

	"github.com/park285/herogrid/internal/herogrid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Options carries the HUD text and an optional highlighted cell.
type Options struct {
	Header    string
	Turn      string
	Highlight *herogrid.Cell
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, snap herogrid.Snapshot, opts Options) ([]byte, error)
}

type pngRenderer struct{}

func NewRenderer() BoardRenderer {
	return &pngRenderer{}
}

const (
	cellSize     = 88
	boardPixels  = cellSize * herogrid.BoardSize
	sideMargin   = 32
	topMargin    = 96
	bottomMargin = 32
	panelHeight  = 30
	panelRadius  = 10
	panelPadX    = 18
	gapToBoard   = 16

	// Width/Height are the dimensions of every rendered image.
	Width  = boardPixels + sideMargin*2
	Height = boardPixels + topMargin + bottomMargin
)

var (
	backgroundColor = color.RGBA{24, 26, 36, 255}
	lightCell       = color.RGBA{233, 207, 163, 255}
	darkCell        = color.RGBA{205, 170, 125, 255}
	seatATint       = color.NRGBA{R: 192, G: 80, B: 77, A: 60}
	seatBTint       = color.NRGBA{R: 60, G: 120, B: 200, A: 60}
	highlightFill   = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	hudPanelColor   = color.NRGBA{R: 36, G: 39, B: 56, A: 250}
	hudShadowColor  = color.NRGBA{0, 0, 0, 60}
	hudTextPrimary  = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	labelColor      = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
	pieceLabelColor = color.NRGBA{R: 40, G: 30, B: 20, A: 255}
)

func (r *pngRenderer) RenderPNG(ctx context.Context, snap herogrid.Snapshot, opts Options) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)
	origin := image.Point{X: sideMargin, Y: topMargin}
	boardRect := image.Rect(origin.X, origin.Y, origin.X+boardPixels, origin.Y+boardPixels)

	drawHUD(img, snap, opts, boardRect)
	drawCells(img, origin)
	if opts.Highlight != nil && opts.Highlight.InBounds() {
		imagedraw.Draw(img, cellRect(*opts.Highlight, origin), image.NewUniform(highlightFill), image.Point{}, imagedraw.Over)
	}
	if err := drawPieces(img, snap, origin); err != nil {
		return nil, err
	}
	drawCoordinates(img, origin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func cellRect(c herogrid.Cell, origin image.Point) image.Rectangle {
	x := origin.X + c.Col*cellSize
	y := origin.Y + c.Row*cellSize
	return image.Rect(x, y, x+cellSize, y+cellSize)
}

func drawCells(dst *image.RGBA, origin image.Point) {
	for row := 0; row < herogrid.BoardSize; row++ {
		for col := 0; col < herogrid.BoardSize; col++ {
			rect := cellRect(herogrid.Cell{Row: row, Col: col}, origin)
			clr := lightCell
			if (row+col)%2 == 1 {
				clr = darkCell
			}
			imagedraw.Draw(dst, rect, image.NewUniform(clr), image.Point{}, imagedraw.Src)
			// 시작 행은 진영 색으로 옅게 칠한다
			switch row {
			case herogrid.SeatA.StartRow():
				imagedraw.Draw(dst, rect, image.NewUniform(seatATint), image.Point{}, imagedraw.Over)
			case herogrid.SeatB.StartRow():
				imagedraw.Draw(dst, rect, image.NewUniform(seatBTint), image.Point{}, imagedraw.Over)
			}
		}
	}
}

func drawPieces(dst *image.RGBA, snap herogrid.Snapshot, origin image.Point) error {
	iconSize := cellSize - 16
	drawer := &font.Drawer{Dst: dst, Face: basicfont.Face7x13, Src: image.NewUniform(pieceLabelColor)}
	for row := 0; row < herogrid.BoardSize; row++ {
		for col := 0; col < herogrid.BoardSize; col++ {
			id := snap.Grid[row][col]
			if id == "" {
				continue
			}
			piece, ok := herogrid.Lookup(id)
			if !ok {
				return fmt.Errorf("unknown piece %q at (%d,%d)", id, row, col)
			}
			icon, err := renderPieceImage(piece, iconSize)
			if err != nil {
				return err
			}
			rect := cellRect(herogrid.Cell{Row: row, Col: col}, origin)
			at := rect.Min.Add(image.Pt(8, 4))
			imagedraw.Draw(dst, image.Rect(at.X, at.Y, at.X+iconSize, at.Y+iconSize), icon, image.Point{}, imagedraw.Over)
			drawCenteredText(drawer, string(id), rect.Min.X+cellSize/2, rect.Max.Y-3)
		}
	}
	return nil
}

func drawCoordinates(dst *image.RGBA, origin image.Point) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(labelColor)}
	ascent := face.Metrics().Ascent.Ceil()
	for i := 0; i < herogrid.BoardSize; i++ {
		label := strconv.Itoa(i)
		center := i*cellSize + cellSize/2
		drawCenteredText(drawer, label, origin.X-sideMargin/2, origin.Y+center+ascent/2)
		drawCenteredText(drawer, label, origin.X+center, origin.Y+boardPixels+ascent+4)
	}
}

func drawHUD(img *image.RGBA, snap herogrid.Snapshot, opts Options, boardRect image.Rectangle) {
	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}

	title := strings.TrimSpace(opts.Header)
	if title == "" {
		title = "Hero Grid"
	}
	turn := strings.TrimSpace(opts.Turn)
	if turn == "" {
		turn = fmt.Sprintf("Player %d to move", snap.Turn.Number())
	}
	score := fmt.Sprintf("%d : %d", len(snap.Casualties[herogrid.SeatA]), len(snap.Casualties[herogrid.SeatB]))

	bottom := boardRect.Min.Y - gapToBoard
	top := bottom - panelHeight
	titleTop := top - panelHeight - 10

	titleRect := panelFor(drawer, title, boardRect.Min.X, titleTop, 220)
	scoreRect := panelFor(drawer, score, 0, top, 90)
	scoreRect = scoreRect.Add(image.Pt(boardRect.Max.X-scoreRect.Max.X, 0))
	turnRect := panelFor(drawer, turn, boardRect.Min.X, top, 160)

	for _, r := range []image.Rectangle{titleRect, scoreRect, turnRect} {
		drawRoundedPanel(img, r.Add(image.Pt(0, 4)), panelRadius, hudShadowColor)
		drawRoundedPanel(img, r, panelRadius, hudPanelColor)
	}
	drawCenteredString(drawer, titleRect, title, hudTextPrimary)
	drawCenteredString(drawer, scoreRect, score, hudTextPrimary)
	drawCenteredString(drawer, turnRect, turn, hudTextPrimary)
}

func panelFor(drawer *font.Drawer, text string, x, y, minWidth int) image.Rectangle {
	w := drawer.MeasureString(text).Round() + panelPadX*2
	if w < minWidth {
		w = minWidth
	}
	if w > boardPixels {
		w = boardPixels
	}
	return image.Rect(x, y, x+w, y+panelHeight)
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if drawer == nil || text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}
