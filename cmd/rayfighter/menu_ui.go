package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/rayfighter/common"
	"github.com/milk9111/rayfighter/fight"
	"golang.org/x/image/font/basicfont"
)

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

type menuButton struct {
	label   string
	clicked func()
}

// newMenuUI builds a centered panel with a title, some lines of text and a
// column of buttons.
func newMenuUI(title string, lines []string, buttons ...menuButton) *ebitenui.UI {
	// semi-transparent panel background
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	hoverImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	btnTextColor := &widget.ButtonTextColor{Idle: white}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, common.BaseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)

	panel.AddChild(widget.NewText(
		widget.TextOpts.Text(title, &face, white),
		widget.TextOpts.WidgetOpts(center),
	))
	for _, line := range lines {
		panel.AddChild(widget.NewText(
			widget.TextOpts.Text(line, &face, color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}),
			widget.TextOpts.WidgetOpts(center),
		))
	}
	for _, b := range buttons {
		clicked := b.clicked
		panel.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: hoverImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(b.label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(center),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				clicked()
			}),
		))
	}

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}

func NewPauseUI(g *Game) *ebitenui.UI {
	return newMenuUI("Paused", nil,
		menuButton{label: "Resume", clicked: func() { g.paused = false }},
		menuButton{label: "Restart", clicked: g.rematch},
		menuButton{label: "Quit", clicked: func() { g.quit = true }},
	)
}

// NewResultsUI shows the match outcome with rematch and export buttons.
func NewResultsUI(g *Game, out *fight.Outcome) *ebitenui.UI {
	title := "DEFEAT"
	if out.Win {
		title = "VICTORY"
	}
	buttons := []menuButton{
		{label: "Rematch", clicked: g.rematch},
	}
	if g.canCopy {
		buttons = append(buttons, menuButton{label: "Copy result", clicked: g.copyOutcome})
	}
	buttons = append(buttons, menuButton{label: "Quit", clicked: func() { g.quit = true }})
	return newMenuUI(title, resultLines(out, g.achievementName), buttons...)
}

func resultLines(out *fight.Outcome, name func(string) string) []string {
	lines := []string{
		fmt.Sprintf("Rounds %d - %d", out.Rounds.P1, out.Rounds.P2),
		fmt.Sprintf("Score %d   best %d", out.Score, out.FighterBest),
		fmt.Sprintf("+%d XP   level %d", out.XP, out.PlayerLevel),
	}
	var tags []string
	if out.Flawless {
		tags = append(tags, "FLAWLESS")
	}
	if out.Comeback {
		tags = append(tags, "COMEBACK")
	}
	if len(tags) > 0 {
		lines = append(lines, strings.Join(tags, "  "))
	}
	if out.Daily.ID != "" {
		lines = append(lines, fmt.Sprintf("Daily %s best %d", out.Daily.ID, out.Daily.Best))
	}
	for _, id := range out.NewAchievements {
		lines = append(lines, "Unlocked: "+name(id))
	}
	return lines
}
