package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"cordpal/config"
	. "cordpal/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	// AOTD_CHANNEL carries selection and review activity. The Discord bot
	// subscribes here to announce the daily pick.
	AOTD_CHANNEL  Channel = "aotd"
	ADMIN_CHANNEL Channel = "admin"
)

type MessageType string

const (
	AOTD_SELECTED    MessageType = "aotd_selected"
	AOTD_FINALIZED   MessageType = "aotd_finalized"
	REVIEW_SUBMITTED MessageType = "review_submitted"
	REVIEW_EDITED    MessageType = "review_edited"
	OUTAGE_CREATED   MessageType = "outage_created"
)

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	UserID    *uuid.UUID     `json:"userId,omitempty"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

// EventBus fans events out over valkey pub/sub so other processes (the
// Discord bot in particular) see them, and to in-process handlers.
type EventBus struct {
	client   valkey.Client
	logger   logger.Logger
	config   config.Config
	handlers map[Channel][]EventHandler
	mutex    sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(client valkey.Client, config config.Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:   client,
		logger:   logger.New("EventBus"),
		config:   config,
		handlers: make(map[Channel][]EventHandler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.logger.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if event.Channel == "" {
		event.Channel = channel
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
	defer cancel()

	err = eb.client.Do(ctx, eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build()).
		Error()
	if err != nil {
		return log.Err(
			"failed to publish event to valkey",
			err,
			"channel",
			channel,
			"eventID",
			event.ID,
		)
	}

	log.Info("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)

	eb.notifyLocalHandlers(channel, event)

	return nil
}

func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	log := eb.logger.Function("Subscribe")

	eb.mutex.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	go eb.listenToChannel(channel)

	return nil
}

func (eb *EventBus) notifyLocalHandlers(channel Channel, event Event) {
	log := eb.logger.Function("notifyLocalHandlers")

	eb.mutex.RLock()
	handlers, exists := eb.handlers[channel]
	eb.mutex.RUnlock()

	if !exists || len(handlers) == 0 {
		return
	}

	for i, handler := range handlers {
		go func(h EventHandler, handlerIndex int) {
			if err := h(event); err != nil {
				log.Er(
					"handler failed",
					err,
					"channel",
					channel,
					"eventID",
					event.ID,
					"handlerIndex",
					handlerIndex,
				)
			}
		}(handler, i)
	}
}

func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.logger.Function("listenToChannel")

	ctx, cancel := context.WithCancel(eb.ctx)
	defer cancel()

	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to unmarshal event", err, "channel", channel, "message", msg.Message)
				return
			}

			log.Info(
				"Received event from valkey",
				"channel",
				channel,
				"eventID",
				event.ID,
				"eventType",
				event.Type,
			)
			eb.notifyLocalHandlers(channel, event)
		},
	)
	if err != nil {
		log.Er("failed to listen to channel", err, "channel", channel)
	}
}

func (eb *EventBus) Close() error {
	log := eb.logger.Function("Close")

	eb.cancel()

	log.Info("EventBus closed")
	return nil
}

// PublishPickSelected announces a freshly drawn pick. Failures are the
// caller's to log; the pick itself is already durable.
func (eb *EventBus) PublishPickSelected(pick *DailyPick, manual bool) error {
	return eb.Publish(AOTD_CHANNEL, Event{
		Type: AOTD_SELECTED,
		Data: map[string]any{
			"pickId":  pick.ID.String(),
			"albumId": pick.AlbumID.String(),
			"title":   pick.Album.Title,
			"artist":  pick.Album.Artist,
			"date":    pick.Date.Format(time.DateOnly),
			"manual":  manual,
		},
	})
}

// PublishPickFinalized announces yesterday's frozen rating.
func (eb *EventBus) PublishPickFinalized(pick *DailyPick) error {
	data := map[string]any{
		"pickId":  pick.ID.String(),
		"albumId": pick.AlbumID.String(),
		"date":    pick.Date.Format(time.DateOnly),
	}
	if pick.Rating != nil {
		data["rating"] = *pick.Rating
	}
	return eb.Publish(AOTD_CHANNEL, Event{
		Type: AOTD_FINALIZED,
		Data: data,
	})
}

// PublishOutageCreated announces a new selection outage on the admin channel.
func (eb *EventBus) PublishOutageCreated(outage *Outage) error {
	return eb.Publish(ADMIN_CHANNEL, Event{
		Type:   OUTAGE_CREATED,
		UserID: &outage.UserID,
		Data: map[string]any{
			"outageId":  outage.ID.String(),
			"startDate": outage.StartDate.Format(time.DateOnly),
			"endDate":   outage.EndDate.Format(time.DateOnly),
			"reason":    outage.Reason,
		},
	})
}

// PublishReviewActivity announces a submitted or edited review.
func (eb *EventBus) PublishReviewActivity(
	eventType MessageType,
	review *Review,
) error {
	return eb.Publish(AOTD_CHANNEL, Event{
		Type:   eventType,
		UserID: &review.UserID,
		Data: map[string]any{
			"reviewId": review.ID.String(),
			"albumId":  review.AlbumID.String(),
			"score":    review.Score,
			"date":     review.AotdDate.Format(time.DateOnly),
		},
	})
}
