package metrics

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"depthview/logger"
)

//go:embed CWdash.json
var dashboardTemplate string

type cloudWatchState struct {
	client        *cloudwatch.Client
	namespace     string
	dashboardName string
	region        string
}

var cwState atomic.Pointer[cloudWatchState]

var (
	// cloudWatchPublishInterval is the aggregation window. Every series is
	// sent once per window as a statistic set of its samples.
	cloudWatchPublishInterval = time.Minute
	cloudWatchPublishTimeout  = 10 * time.Second
	timeNow                   = time.Now
	publishMetricsFunc        = publishMetrics

	pendingMu sync.Mutex
	pending   = make(map[string]*pendingSeries)
)

// maxDatumsPerRequest is the PutMetricData batch limit.
const maxDatumsPerRequest = 1000

// pendingSeries folds the samples of one series inside a window.
type pendingSeries struct {
	component  string
	name       string
	unit       cwtypes.StandardUnit
	dimensions map[string]string
	count      float64
	sum        float64
	min        float64
	max        float64
}

func (p *pendingSeries) add(value float64) {
	if p.count == 0 || value < p.min {
		p.min = value
	}
	if p.count == 0 || value > p.max {
		p.max = value
	}
	p.count++
	p.sum += value
}

func init() {
	cwState.Store(&cloudWatchState{
		namespace:     "DepthView",
		dashboardName: "DepthView",
	})
}

// InitCloudWatch initialises the CloudWatch client using the provided region and namespace.
// The dashboard is created using the embedded CWdash.json definition and a flusher publishes
// the aggregated series once per interval until ctx is done. When the client cannot be
// created the function logs a warning and leaves publishing disabled.
func InitCloudWatch(ctx context.Context, region, namespace, dashboard string) {
	log := logger.GetLogger().WithComponent("cloudwatch")

	if region == "" {
		region = os.Getenv("AWS_REGION")
	}

	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.WithError(err).Warn("failed to load AWS configuration; CloudWatch metrics disabled")
		return
	}

	current := cwState.Load()
	state := cloudWatchState{}
	if current != nil {
		state = *current
	}

	state.client = cloudwatch.NewFromConfig(cfg)
	if namespace != "" {
		state.namespace = namespace
	}
	if dashboard != "" {
		state.dashboardName = dashboard
	}
	if cfg.Region != "" {
		state.region = cfg.Region
	} else {
		state.region = region
	}

	cwState.Store(&state)

	log.WithFields(logger.Fields{
		"region":    state.region,
		"namespace": state.namespace,
	}).Info("initialized CloudWatch client")

	if err := CreateDashboardFromTemplate(ctx); err != nil {
		log.WithError(err).Warn("failed to create CloudWatch dashboard")
	}

	go runFlusher(ctx)
}

// dashboardBody renders the embedded template for the given namespace and region.
func dashboardBody(namespace, region string) (string, error) {
	body := dashboardTemplate
	if namespace != "" {
		body = strings.ReplaceAll(body, "\"DepthView\"", fmt.Sprintf("%q", namespace))
	}
	if region != "" {
		body = strings.ReplaceAll(body, "\"us-east-1\"", fmt.Sprintf("%q", region))
	}

	if !json.Valid([]byte(body)) {
		return "", fmt.Errorf("dashboard template is not valid JSON after substitution")
	}
	return body, nil
}

// CreateDashboardFromTemplate applies the embedded dashboard definition and updates the
// configured CloudWatch dashboard. Invalid JSON or API failures are surfaced to the caller.
func CreateDashboardFromTemplate(ctx context.Context) error {
	state := cwState.Load()
	if state == nil || state.client == nil {
		return nil
	}

	body, err := dashboardBody(state.namespace, state.region)
	if err != nil {
		return err
	}

	_, err = state.client.PutDashboard(ctx, &cloudwatch.PutDashboardInput{
		DashboardName: aws.String(state.dashboardName),
		DashboardBody: aws.String(body),
	})
	if err != nil {
		return err
	}

	logger.GetLogger().WithComponent("cloudwatch").Debug("updated CloudWatch dashboard from template")
	return nil
}

// queueCloudWatch adds ev to its series of the current window. Nothing is
// kept while CloudWatch is not configured.
func queueCloudWatch(ev Event) {
	state := cwState.Load()
	if state == nil || state.client == nil {
		return
	}

	key := ev.seriesKey()

	pendingMu.Lock()
	defer pendingMu.Unlock()

	series, ok := pending[key]
	if !ok {
		series = &pendingSeries{
			component:  ev.Component,
			name:       ev.Name,
			unit:       ev.Unit,
			dimensions: ev.Dimensions,
		}
		pending[key] = series
	}
	series.add(ev.Value)
}

// drainPending hands over the current window and starts a new one.
func drainPending() map[string]*pendingSeries {
	pendingMu.Lock()
	defer pendingMu.Unlock()

	drained := pending
	pending = make(map[string]*pendingSeries)
	return drained
}

// FlushCloudWatch publishes the samples gathered since the previous flush.
// Each call to PutMetricData is bounded by cloudWatchPublishTimeout.
func FlushCloudWatch(ctx context.Context) {
	state := cwState.Load()
	if state == nil || state.client == nil {
		return
	}

	drained := drainPending()
	if len(drained) == 0 {
		return
	}

	keys := make([]string, 0, len(drained))
	for k := range drained {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ts := timeNow()
	data := make([]cwtypes.MetricDatum, 0, len(keys))
	for _, k := range keys {
		data = append(data, drained[k].datum(ts))
	}

	for len(data) > 0 {
		n := min(len(data), maxDatumsPerRequest)
		publishCtx, cancel := context.WithTimeout(ctx, cloudWatchPublishTimeout)
		publishMetricsFunc(publishCtx, state, data[:n])
		cancel()
		data = data[n:]
	}
}

func (p *pendingSeries) datum(ts time.Time) cwtypes.MetricDatum {
	dims := []cwtypes.Dimension{{Name: aws.String("component"), Value: aws.String(p.component)}}
	names := make([]string, 0, len(p.dimensions))
	for k := range p.dimensions {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if v := p.dimensions[k]; v != "" {
			dims = append(dims, cwtypes.Dimension{Name: aws.String(k), Value: aws.String(v)})
		}
	}

	unit := p.unit
	if _, ok := metricUnitFromString(string(unit)); !ok {
		logger.GetLogger().WithComponent("cloudwatch").WithFields(logger.Fields{"metric": p.name, "unit": string(unit)}).Debug("unsupported metric unit; defaulting to Count")
		unit = cwtypes.StandardUnitCount
	}

	return cwtypes.MetricDatum{
		MetricName: aws.String(p.name),
		Dimensions: dims,
		Timestamp:  aws.Time(ts),
		Unit:       unit,
		StatisticValues: &cwtypes.StatisticSet{
			SampleCount: aws.Float64(p.count),
			Sum:         aws.Float64(p.sum),
			Minimum:     aws.Float64(p.min),
			Maximum:     aws.Float64(p.max),
		},
	}
}

// runFlusher flushes once per window until ctx is done. The final window
// is left to an explicit FlushCloudWatch at shutdown.
func runFlusher(ctx context.Context) {
	ticker := time.NewTicker(cloudWatchPublishInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			FlushCloudWatch(ctx)
		}
	}
}

func publishMetrics(ctx context.Context, state *cloudWatchState, data []cwtypes.MetricDatum) {
	if state == nil || state.client == nil {
		return
	}
	if len(data) == 0 {
		logger.GetLogger().WithComponent("cloudwatch").Debug("no metric data to publish")
		return
	}

	if _, err := state.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(state.namespace),
		MetricData: data,
	}); err != nil {
		logger.GetLogger().WithComponent("cloudwatch").WithError(err).Warn("failed to publish CloudWatch metrics")
		return
	}

	names := make([]string, 0, len(data))
	for _, datum := range data {
		if datum.MetricName != nil {
			names = append(names, *datum.MetricName)
		}
	}

	logger.GetLogger().WithComponent("cloudwatch").WithFields(logger.Fields{"metrics": strings.Join(names, ",")}).Debug("published metrics to CloudWatch")
}

func metricUnitFromString(unit string) (cwtypes.StandardUnit, bool) {
	switch strings.ToLower(unit) {
	case "count":
		return cwtypes.StandardUnitCount, true
	case "percent":
		return cwtypes.StandardUnitPercent, true
	case "milliseconds":
		return cwtypes.StandardUnitMilliseconds, true
	case "bytes":
		return cwtypes.StandardUnitBytes, true
	default:
		return cwtypes.StandardUnitCount, false
	}
}
