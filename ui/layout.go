package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// Alignment specifies the horizontal alignment.
type Alignment int

const (
	alignLeft Alignment = iota
	alignRight
	alignOpposed
)

// SplitAlign is a namespace for the Alignment constants.
var SplitAlign = struct {
	Left    Alignment // Left left-align both widgets.
	Right   Alignment // Right right-align both widgets.
	Opposed Alignment // Opposed align the first widget to the left and the second widget to the right.
}{
	Left:    alignLeft,
	Right:   alignRight,
	Opposed: alignOpposed,
}

// FirstWidgetProportion represents the predefined split ratios.
type FirstWidgetProportion int

const (
	oneThird    FirstWidgetProportion = iota // 1/3 - 2/3
	oneFourth                                // 1/4 - 3/4
	twoThirds                                // 2/3 - 1/3
	threeFifths                              // 3/5 - 2/5
)

// SplitProportion is a namespace for the FirstWidgetProportion constants.
var SplitProportion = struct {
	OneThird    FirstWidgetProportion // OneThird 1/3 - 2/3
	OneFourth   FirstWidgetProportion // OneFourth 1/4 - 3/4
	TwoThirds   FirstWidgetProportion // TwoThirds 2/3 - 1/3
	ThreeFifths FirstWidgetProportion // ThreeFifths 3/5 - 2/5
}{
	OneThird:    oneThird,
	OneFourth:   oneFourth,
	TwoThirds:   twoThirds,
	ThreeFifths: threeFifths,
}

// splitLayout is our custom two-widget row layout.
type splitLayout struct {
	widget1    fyne.CanvasObject
	widget2    fyne.CanvasObject
	proportion FirstWidgetProportion
	alignment  Alignment
}

// MinSize calculates the minimum size.
func (s *splitLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	w1Size := s.widget1.MinSize()
	w2Size := s.widget2.MinSize()
	maxWidth := w1Size.Width + w2Size.Width
	maxHeight := fyne.Max(w1Size.Height, w2Size.Height)
	return fyne.NewSize(maxWidth, maxHeight)
}

// Layout arranges the widgets.
func (s *splitLayout) Layout(objects []fyne.CanvasObject, containerSize fyne.Size) {
	var widget1Width float32
	switch s.proportion {
	case oneThird:
		widget1Width = containerSize.Width / 3
	case oneFourth:
		widget1Width = containerSize.Width / 4
	case twoThirds:
		widget1Width = containerSize.Width * 2 / 3
	case threeFifths:
		widget1Width = containerSize.Width * 3 / 5
	}
	widget2Width := containerSize.Width - widget1Width

	s.widget1.Resize(fyne.NewSize(widget1Width, s.widget1.MinSize().Height))
	s.widget2.Resize(fyne.NewSize(widget2Width, s.widget2.MinSize().Height))

	var widget1X, widget2X float32
	switch s.alignment {
	case alignLeft:
		widget1X = 0
		widget2X = widget1Width
	case alignRight:
		widget1X = containerSize.Width - widget1Width - widget2Width
		widget2X = containerSize.Width - widget2Width
	case alignOpposed:
		widget1X = 0
		widget2X = containerSize.Width - widget2Width
	}

	s.widget1.Move(fyne.NewPos(widget1X, 0))
	s.widget2.Move(fyne.NewPos(widget2X, 0))
}

// NewSplitRowWithAlignment creates a split row with specified alignment and proportion.
func NewSplitRowWithAlignment(widget1, widget2 fyne.CanvasObject, proportion FirstWidgetProportion, alignment Alignment) *fyne.Container {
	layout := &splitLayout{
		widget1:    widget1,
		widget2:    widget2,
		proportion: proportion,
		alignment:  alignment,
	}
	return container.New(layout, widget1, widget2)
}

// NewSplitRow creates a split row with default (left) alignment.
func NewSplitRow(widget1, widget2 fyne.CanvasObject, proportion FirstWidgetProportion) *fyne.Container {
	return NewSplitRowWithAlignment(widget1, widget2, proportion, alignLeft)
}
