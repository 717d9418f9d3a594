package cw

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/smithy-go/ptr"
	"github.com/luneo7/go-rds-cold-archiving/internal/cw/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCloudWatchClient struct {
	mock.Mock
}

func (m *MockCloudWatchClient) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudwatch.PutMetricDataOutput), args.Error(1)
}

func TestPutMetrics(t *testing.T) {
	fixed := time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC)

	client := &MockCloudWatchClient{}
	client.On("PutMetricData", mock.Anything, mock.Anything).Return(&cloudwatch.PutMetricDataOutput{}, nil)

	c := NewCloudWatchFromClient(client, "ColdArchiving")
	c.now = func() time.Time { return fixed }

	err := c.PutMetrics(context.Background(), &types.Metrics{
		DispatchMetrics: map[types.DispatchMetricName]types.Metric{
			types.JobsSubmitted:    {Value: ptr.Float64(2)},
			types.InstanceFailures: {Value: ptr.Float64(1)},
			types.InstancesSkipped: {},
		},
	})
	require.NoError(t, err)

	input := client.Calls[0].Arguments.Get(1).(*cloudwatch.PutMetricDataInput)
	require.Equal(t, "ColdArchiving", aws.ToString(input.Namespace))
	require.Len(t, input.MetricData, 2)
	require.Equal(t, "InstanceFailures", aws.ToString(input.MetricData[0].MetricName))
	require.Equal(t, 1.0, aws.ToFloat64(input.MetricData[0].Value))
	require.Equal(t, "JobsSubmitted", aws.ToString(input.MetricData[1].MetricName))
	require.Equal(t, cwTypes.StandardUnitCount, input.MetricData[1].Unit)
	require.Equal(t, fixed, aws.ToTime(input.MetricData[1].Timestamp))
}

func TestPutMetricsNothingToSend(t *testing.T) {
	client := &MockCloudWatchClient{}

	err := NewCloudWatchFromClient(client, "ColdArchiving").PutMetrics(context.Background(), &types.Metrics{})
	require.NoError(t, err)
	client.AssertNotCalled(t, "PutMetricData", mock.Anything, mock.Anything)
}

func TestPutMetricsError(t *testing.T) {
	client := &MockCloudWatchClient{}
	client.On("PutMetricData", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	err := NewCloudWatchFromClient(client, "ColdArchiving").PutMetrics(context.Background(), &types.Metrics{
		DispatchMetrics: map[types.DispatchMetricName]types.Metric{
			types.JobsSubmitted: {Value: ptr.Float64(1)},
		},
	})
	require.ErrorContains(t, err, "put metric data to ColdArchiving")
}
