package services

import (
	"agency/internal/events"
	"agency/internal/logger"
)

const (
	ConversionLead        = "lead"
	ConversionApplication = "application"
	EventPageView         = "page_view"
)

// TrackingService forwards marketing conversions to whatever listens on the
// tracking channel. It is fire and forget: callers never see a failure.
type TrackingService struct {
	eventBus events.Publisher
	pixelID  string
	log      logger.Logger
	async    bool
}

func NewTrackingService(eventBus events.Publisher, pixelID string) *TrackingService {
	return &TrackingService{
		eventBus: eventBus,
		pixelID:  pixelID,
		log:      logger.New("TrackingService"),
		async:    true,
	}
}

// Conversion records a completed form submission. value is the dollar amount the
// pixel reports, zero when the form carries none.
func (s *TrackingService) Conversion(kind, contentName string, value int) {
	if !s.enabled() {
		return
	}
	s.send(events.NewEvent(events.ChannelTracking, kind, "conversion", map[string]any{
		"pixelId":     s.pixelID,
		"contentName": contentName,
		"value":       value,
		"currency":    "USD",
	}))
}

func (s *TrackingService) PageView(path string) {
	if !s.enabled() {
		return
	}
	s.send(events.NewEvent(events.ChannelTracking, EventPageView, "view", map[string]any{
		"pixelId": s.pixelID,
		"path":    path,
	}))
}

func (s *TrackingService) enabled() bool {
	return s != nil && s.eventBus != nil
}

func (s *TrackingService) send(event events.Event) {
	publish := func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Function("send").Warn("tracking publish panicked", "recovered", r)
			}
		}()
		if err := s.eventBus.Publish(events.ChannelTracking, event); err != nil {
			s.log.Function("send").Warn("tracking event dropped", "type", event.Type, "error", err)
		}
	}

	if s.async {
		go publish()
		return
	}
	publish()
}
