package types

type DispatchMetricName string

// Enum values for dispatch metrics
const (
	JobsSubmitted    DispatchMetricName = "JobsSubmitted"
	InstancesSkipped DispatchMetricName = "InstancesSkipped"
	InstanceFailures DispatchMetricName = "InstanceFailures"
	InstancesScanned DispatchMetricName = "InstancesScanned"
)

func (c DispatchMetricName) String() string {
	return string(c)
}

type Metrics struct {
	DispatchMetrics map[DispatchMetricName]Metric
}

type Metric struct {
	Value *float64
}
