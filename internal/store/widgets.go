package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/models"
)

// CreateWidgetParams holds the fields for a new embeddable widget.
// PaymentLinkID is the link's public short id.
type CreateWidgetParams struct {
	Name          string
	Type          string
	Style         string
	Size          string
	ButtonText    string
	Description   string
	ImageURL      string
	PaymentLinkID string
	PrimaryColor  string
	BorderRadius  int
	ShowAmount    bool
	ShowCurrency  bool
}

// CreateWidget creates a widget bound to an existing payment link and renders
// its embed code. Unlike the silent lookups elsewhere, a missing link is an
// error here: an embed snippet for a dead link is useless to distribute.
func (s *Store) CreateWidget(params CreateWidgetParams) (models.Widget, error) {
	if params.Name == "" {
		return models.Widget{}, fmt.Errorf("widget name is required")
	}
	if params.ButtonText == "" {
		return models.Widget{}, fmt.Errorf("widget button text is required")
	}
	if !domain.IsValidWidgetType(params.Type) {
		return models.Widget{}, fmt.Errorf("unsupported widget type: %s", params.Type)
	}
	if params.Style == "" {
		params.Style = domain.WidgetStyleDefault
	}
	if params.Size == "" {
		params.Size = domain.WidgetSizeMedium
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[params.PaymentLinkID]
	if !ok {
		return models.Widget{}, models.ErrPaymentLinkNotFound
	}

	widget := &models.Widget{
		ID:            uuid.New(),
		Name:          params.Name,
		Type:          params.Type,
		Style:         params.Style,
		Size:          params.Size,
		ButtonText:    params.ButtonText,
		Description:   params.Description,
		ImageURL:      params.ImageURL,
		Active:        true,
		EmbedCode:     s.renderEmbedCode(params, link),
		PaymentLinkID: params.PaymentLinkID,
		PrimaryColor:  params.PrimaryColor,
		BorderRadius:  params.BorderRadius,
		ShowAmount:    params.ShowAmount,
		ShowCurrency:  params.ShowCurrency,
		CreatedAt:     s.now(),
	}
	s.widgets = append(s.widgets, widget)
	return *widget, nil
}

// renderEmbedCode produces the snippet merchants paste into their pages. The
// mapping is total over the widget type enum. Only the link's public short id
// appears in the output; the internal identifier never leaves the store.
func (s *Store) renderEmbedCode(params CreateWidgetParams, link *models.PaymentLink) string {
	var b strings.Builder

	attr := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, ` data-%s=%q`, name, value)
		}
	}

	switch params.Type {
	case domain.WidgetTypeButton:
		fmt.Fprintf(&b, `<script src="%s/widget.js" data-widget-type="button" data-link-id=%q data-button-text=%q data-style=%q data-size=%q`,
			s.widgetOrigin, link.LinkID, params.ButtonText, params.Style, params.Size)
		attr("color", params.PrimaryColor)
		if params.BorderRadius > 0 {
			fmt.Fprintf(&b, ` data-radius="%d"`, params.BorderRadius)
		}
		b.WriteString("></script>")

	case domain.WidgetTypeCheckout:
		radius := params.BorderRadius
		if radius == 0 {
			radius = 8
		}
		fmt.Fprintf(&b, `<iframe src="%s/checkout/%s?embed=true" width="100%%" height="600" frameborder="0" style="border-radius: %dpx;"></iframe>`,
			s.widgetOrigin, link.LinkID, radius)

	default: // card, inline, donation, subscription share the div template
		fmt.Fprintf(&b, `<div data-squadgrid-widget=%q data-link-id=%q data-button-text=%q data-style=%q data-size=%q`,
			params.Type, link.LinkID, params.ButtonText, params.Style, params.Size)
		if params.Type != domain.WidgetTypeInline {
			attr("description", params.Description)
		}
		if params.Type == domain.WidgetTypeCard {
			attr("image", params.ImageURL)
		}
		if params.Type == domain.WidgetTypeCard || params.Type == domain.WidgetTypeInline {
			if params.ShowAmount {
				attr("amount", link.Amount)
			}
			if params.ShowCurrency {
				attr("currency", link.Currency)
			}
		}
		attr("color", params.PrimaryColor)
		fmt.Fprintf(&b, `></div><script src="%s/widget.js"></script>`, s.widgetOrigin)
	}

	return b.String()
}

// AllWidgets returns every widget, newest first.
func (s *Store) AllWidgets() []models.Widget {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Widget, 0, len(s.widgets))
	for _, w := range s.widgets {
		out = append(out, *w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// WidgetByID resolves a widget by its internal identifier.
func (s *Store) WidgetByID(id uuid.UUID) (models.Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.widgets {
		if w.ID == id {
			return *w, nil
		}
	}
	return models.Widget{}, models.ErrWidgetNotFound
}

// DeleteWidget removes a widget by its internal identifier.
func (s *Store) DeleteWidget(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, w := range s.widgets {
		if w.ID == id {
			s.widgets = append(s.widgets[:i], s.widgets[i+1:]...)
			return true
		}
	}
	return false
}
