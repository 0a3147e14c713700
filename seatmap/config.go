package seatmap

const (
	defaultThreshold      = 3
	defaultMaxZoom        = 8
	defaultZoomStep       = 0.5
	defaultSidePanelWidth = 384
	defaultRowSpacing     = 14
	defaultSeatSpacing    = 12
	defaultSeatHit        = 0.5
	defaultSectionHitX    = 40
	defaultSectionHitY    = 20
)

// Config holds the zoom regime boundaries and the geometry used to place
// sections and seats on screen. Distances are in screen units (pixels for a
// browser, cells for a terminal).
type Config struct {
	// Threshold is the zoom at which seats replace section boxes.
	Threshold float64
	MaxZoom   float64
	ZoomStep  float64

	// PanBoundX is the largest pan allowed on the x axis. The stage is
	// anchored on the right, so content never moves right of its origin.
	PanBoundX float64

	// SidePanelWidth is subtracted from the viewport width to get the stage.
	SidePanelWidth float64

	// OriginX and OriginY locate the zoom origin as fractions of the stage.
	OriginX float64
	OriginY float64

	RowSpacing  float64
	SeatSpacing float64

	// SeatHit is the half extent of a seat hit box in spacing units.
	SeatHit float64

	// SectionHitX and SectionHitY are the half extents of a section box.
	SectionHitX float64
	SectionHitY float64
}

func DefaultConfig() Config {
	return Config{
		Threshold:      defaultThreshold,
		MaxZoom:        defaultMaxZoom,
		ZoomStep:       defaultZoomStep,
		PanBoundX:      0,
		SidePanelWidth: defaultSidePanelWidth,
		OriginX:        0,
		OriginY:        0.5,
		RowSpacing:     defaultRowSpacing,
		SeatSpacing:    defaultSeatSpacing,
		SeatHit:        defaultSeatHit,
		SectionHitX:    defaultSectionHitX,
		SectionHitY:    defaultSectionHitY,
	}
}

// normalized replaces values that would break the state machine with
// defaults. The zoom floor is always 1.
func (c Config) normalized() Config {
	if c.Threshold <= 1 {
		c.Threshold = defaultThreshold
	}
	if c.MaxZoom < c.Threshold {
		c.MaxZoom = c.Threshold
	}
	if c.ZoomStep <= 0 {
		c.ZoomStep = defaultZoomStep
	}
	if c.PanBoundX > 0 {
		c.PanBoundX = 0
	}
	if c.SidePanelWidth < 0 {
		c.SidePanelWidth = 0
	}
	c.OriginX = clamp(c.OriginX, 0, 1)
	c.OriginY = clamp(c.OriginY, 0, 1)
	if c.RowSpacing <= 0 {
		c.RowSpacing = defaultRowSpacing
	}
	if c.SeatSpacing <= 0 {
		c.SeatSpacing = defaultSeatSpacing
	}
	if c.SeatHit <= 0 || c.SeatHit > 0.5 {
		c.SeatHit = defaultSeatHit
	}
	if c.SectionHitX <= 0 {
		c.SectionHitX = defaultSectionHitX
	}
	if c.SectionHitY <= 0 {
		c.SectionHitY = defaultSectionHitY
	}
	return c
}

// Presentation tells a renderer how to draw the map at a zoom level.
type Presentation struct {
	ShowBoxes bool
	ShowSeats bool
	// Blending is true inside the band [Threshold, Threshold+1) where boxes
	// of other sections fade out while the focused one grows.
	Blending      bool
	FocusScale    float64
	OthersOpacity float64
	HideOthers    bool
}

// Present computes the box/seat presentation for zoom. It does not change
// any state.
func (c Config) Present(zoom float64) Presentation {
	c = c.normalized()
	if zoom < c.Threshold {
		return Presentation{ShowBoxes: true, FocusScale: 1, OthersOpacity: 1}
	}
	delta := zoom - c.Threshold
	return Presentation{
		ShowSeats:     true,
		Blending:      delta < 1,
		FocusScale:    1 + delta*0.3,
		OthersOpacity: max(0.1, 1-delta*0.3),
		HideOthers:    delta >= 1,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
