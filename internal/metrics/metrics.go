// Package metrics emits notification outcome counts to CloudWatch.
package metrics

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/rohithwtcrofficial/roastery-backoffice/internal/aws"
)

const namespace = "Roastery/Notifications"

// Emitter publishes one datapoint per dispatch outcome. A nil *Emitter is
// safe to call, so wiring metrics stays optional in local runs and tests.
type Emitter struct {
	client aws.CloudWatchAPI
}

// NewEmitter creates an Emitter.
func NewEmitter(client aws.CloudWatchAPI) *Emitter {
	return &Emitter{client: client}
}

// RecordOutcome counts one sent or failed notification, dimensioned by the
// canonical status it was for.
func (e *Emitter) RecordOutcome(ctx context.Context, kind string, success bool) error {
	if e == nil || e.client == nil {
		return nil
	}
	metricName := "NotificationFailed"
	if success {
		metricName = "NotificationSent"
	}
	_, err := e.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String(metricName),
				Unit:       cwtypes.StandardUnitCount,
				Value:      sdkaws.Float64(1),
				Dimensions: []cwtypes.Dimension{
					{Name: sdkaws.String("Kind"), Value: sdkaws.String(kind)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
