package metrics

import (
	"sort"
	"sync"
	"time"

	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"depthview/logger"
)

// Kind decides how samples of one series fold together.
type Kind string

const (
	Counter Kind = "counter"
	Gauge   Kind = "gauge"
)

// FrameRef ties an event to the frame that produced it. Sequence is zero for
// events outside the render loop.
type FrameRef struct {
	ID       string `json:"id,omitempty"`
	Sequence int64  `json:"sequence"`
	Pane     string `json:"pane,omitempty"`
}

// Event is one sample taken while a frame was rendered or delivered.
type Event struct {
	Timestamp time.Time            `json:"timestamp"`
	Component string               `json:"component"`
	Name      string               `json:"name"`
	Kind      Kind                 `json:"kind"`
	Value     float64              `json:"value"`
	Unit      cwtypes.StandardUnit `json:"unit"`
	Frame     FrameRef             `json:"frame"`
	// Dimensions split a series, e.g. sink errors by sink. Keep them low
	// cardinality: every combination is a CloudWatch series.
	Dimensions map[string]string `json:"dimensions,omitempty"`
}

// seriesKey identifies the series ev aggregates into.
func (ev Event) seriesKey() string {
	key := ev.Component + "/" + ev.Name
	if len(ev.Dimensions) == 0 {
		return key
	}
	names := make([]string, 0, len(ev.Dimensions))
	for k := range ev.Dimensions {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		key += "|" + k + "=" + ev.Dimensions[k]
	}
	return key
}

// Subscriber receives every emitted event on the emitting goroutine.
type Subscriber func(Event)

type SubscriptionID uint64

var (
	subscribersMu sync.RWMutex
	subscribers   = make(map[SubscriptionID]Subscriber)
	nextID        SubscriptionID
)

// Subscribe registers fn for all future events. A nil fn yields the zero id.
func Subscribe(fn Subscriber) SubscriptionID {
	if fn == nil {
		return 0
	}

	subscribersMu.Lock()
	defer subscribersMu.Unlock()

	nextID++
	subscribers[nextID] = fn
	return nextID
}

func Unsubscribe(id SubscriptionID) {
	if id == 0 {
		return
	}

	subscribersMu.Lock()
	delete(subscribers, id)
	subscribersMu.Unlock()
}

// Emit stamps ev, logs it at debug level, hands it to the subscribers and
// queues it for CloudWatch. Events without a name are dropped.
func Emit(log *logger.Log, ev Event) {
	if ev.Name == "" {
		return
	}
	if ev.Kind == "" {
		ev.Kind = Counter
	}
	if ev.Unit == "" {
		ev.Unit = cwtypes.StandardUnitCount
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = timeNow()
	}
	if len(ev.Dimensions) > 0 {
		dims := make(map[string]string, len(ev.Dimensions))
		for k, v := range ev.Dimensions {
			dims[k] = v
		}
		ev.Dimensions = dims
	}

	if log == nil {
		log = logger.GetLogger()
	}
	fields := logger.Fields{
		"metric":   ev.Name,
		"kind":     string(ev.Kind),
		"value":    ev.Value,
		"sequence": ev.Frame.Sequence,
	}
	if ev.Frame.ID != "" {
		fields["frame"] = ev.Frame.ID
	}
	for k, v := range ev.Dimensions {
		fields[k] = v
	}
	log.WithComponent(ev.Component).WithFields(fields).Debug("metric")

	dispatch(ev)
	queueCloudWatch(ev)
}

func dispatch(ev Event) {
	subscribersMu.RLock()
	fns := make([]Subscriber, 0, len(subscribers))
	for _, fn := range subscribers {
		fns = append(fns, fn)
	}
	subscribersMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
