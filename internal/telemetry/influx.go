package telemetry

import (
	"strconv"
	"time"

	influxdb "github.com/influxdata/influxdb-client-go/v2"
	influxdb2api "github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxWriter records per-epoch scheduler/channel state as InfluxDB
// line-protocol points, for scenarios long enough that a dashboard
// over time is more useful than a live metrics scrape.
//
// Grounded on FengXuebin-gnssgo/app/plot/plot.go's OutPostion: same
// client/org/bucket/WriteAPI shape, with the server URL, org and token
// taken from Options instead of hardcoded, and the "solution" point
// replaced by one measurement per simulated observation.
type InfluxWriter struct {
	client influxdb.Client
	write  influxdb2api.WriteAPI
}

// NewInfluxWriter opens a non-blocking write client against serverURL,
// writing into org/bucket using token for authentication.
func NewInfluxWriter(serverURL, token, org, bucket string) *InfluxWriter {
	client := influxdb.NewClient(serverURL, token)
	return &InfluxWriter{
		client: client,
		write:  client.WriteAPI(org, bucket),
	}
}

// WriteEpoch records one epoch's receiver position and active channel
// count as a single "epoch" point.
func (w *InfluxWriter) WriteEpoch(t time.Time, latDeg, lonDeg, heightM float64, activeChannels int) {
	p := influxdb.NewPointWithMeasurement("epoch").
		AddField("latitude", latDeg).
		AddField("longitude", lonDeg).
		AddField("height", heightM).
		AddField("active_channels", activeChannels).
		SetTime(t)
	w.write.WritePoint(p)
}

// WriteSatellite records one satellite's observation geometry as a
// "satellite" point tagged by PRN.
func (w *InfluxWriter) WriteSatellite(t time.Time, prn int, elDeg, azDeg, rangeM float64) {
	p := influxdb.NewPointWithMeasurement("satellite").
		AddTag("prn", strconv.Itoa(prn)).
		AddField("elevation_deg", elDeg).
		AddField("azimuth_deg", azDeg).
		AddField("range_m", rangeM).
		SetTime(t)
	w.write.WritePoint(p)
}

// Close flushes any buffered points and closes the underlying client.
func (w *InfluxWriter) Close() {
	w.write.Flush()
	w.client.Close()
}
