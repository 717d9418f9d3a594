package cw

import (
	"context"
	"slices"
	"time"

	"github.com/luneo7/go-rds-cold-archiving/internal/cw/types"
	"github.com/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type Client interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

type CloudWatch struct {
	cwClient  Client
	namespace string
	now       func() time.Time
}

func NewCloudWatch(awsConfig *aws.Config, namespace string) *CloudWatch {
	return NewCloudWatchFromClient(cloudwatch.NewFromConfig(*awsConfig), namespace)
}

func NewCloudWatchFromClient(client Client, namespace string) *CloudWatch {
	return &CloudWatch{
		cwClient:  client,
		namespace: namespace,
		now:       time.Now,
	}
}

// PutMetrics publishes every metric with a value as a Count datum in a single
// request. Metrics without a value are left out.
func (c *CloudWatch) PutMetrics(ctx context.Context, metrics *types.Metrics) error {
	timestamp := c.now().UTC()

	names := make([]types.DispatchMetricName, 0, len(metrics.DispatchMetrics))
	for name := range metrics.DispatchMetrics {
		names = append(names, name)
	}
	slices.Sort(names)

	data := make([]cwTypes.MetricDatum, 0, len(names))
	for _, name := range names {
		metric := metrics.DispatchMetrics[name]
		if metric.Value == nil {
			continue
		}

		data = append(data, cwTypes.MetricDatum{
			MetricName: aws.String(name.String()),
			Timestamp:  aws.Time(timestamp),
			Unit:       cwTypes.StandardUnitCount,
			Value:      metric.Value,
		})
	}

	if len(data) == 0 {
		return nil
	}

	_, err := c.cwClient.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(c.namespace),
		MetricData: data,
	})

	if err != nil {
		return errors.Wrapf(err, "put metric data to %s", c.namespace)
	}

	return nil
}
