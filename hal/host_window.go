//go:build !tinygo && !lgpio && cgo

package hal

import (
	"context"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"glint/internal/buildinfo"
)

// ledScale is the logical pixel size of one LED cell in the window.
const ledScale = 14

var (
	background = color.RGBA{R: 0x10, G: 0x10, B: 0x12, A: 0xFF}
	white      = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// RunWindow opens a desktop window showing the panel and runs the
// firmware against the simulated board. Keys 1, 2 and 3 (or J, K, L)
// are the buttons, up and down arrows turn the room lights. It blocks
// until the window closes or ctx ends.
func RunWindow(ctx context.Context, run func(context.Context, Board)) error {
	b := newSimBoard()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		run(ctx, b)
	}()

	g := &panelGame{ctx: ctx, board: b}
	ebiten.SetWindowTitle("Glint (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(panelCols*ledScale*2, panelRows*ledScale*2)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)

	cancel()
	<-done
	return err
}

type panelGame struct {
	ctx   context.Context
	board *simBoard
	dot   *ebiten.Image
}

func (g *panelGame) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	keys := [3][2]ebiten.Key{
		{ebiten.KeyDigit1, ebiten.KeyJ},
		{ebiten.KeyDigit2, ebiten.KeyK},
		{ebiten.KeyDigit3, ebiten.KeyL},
	}
	for i, pair := range keys {
		g.board.buttons[i].set(ebiten.IsKeyPressed(pair[0]) || ebiten.IsKeyPressed(pair[1]))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.board.light.adjust(256)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.board.light.adjust(-256)
	}
	return nil
}

func (g *panelGame) Draw(screen *ebiten.Image) {
	if g.dot == nil {
		g.dot = ebiten.NewImage(ledScale-2, ledScale-2)
		g.dot.Fill(white)
	}

	screen.Fill(background)
	_, duty := g.board.panel.frame()

	var op ebiten.DrawImageOptions
	for r := 0; r < panelRows; r++ {
		for c := 0; c < panelCols; c++ {
			op.GeoM.Reset()
			op.GeoM.Translate(float64(c*ledScale+1), float64(r*ledScale+1))
			op.ColorScale.Reset()
			f := duty[r][c]
			// A dark cell still shows as a faint unlit LED.
			op.ColorScale.Scale(0.10+0.90*f, 0.03+0.25*f, 0.02+0.08*f, 1)
			screen.DrawImage(g.dot, &op)
		}
	}
}

func (g *panelGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return panelCols * ledScale, panelRows * ledScale
}
