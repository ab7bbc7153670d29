package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2svc "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// collectLoadBalancers lists every ELBv2 load balancer in the client's region.
func collectLoadBalancers(ctx context.Context, client elbv2APIClient) ([]models.LoadBalancer, error) {
	paginator := elbv2svc.NewDescribeLoadBalancersPaginator(client, &elbv2svc.DescribeLoadBalancersInput{})

	var lbs []models.LoadBalancer
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe load balancers: %w", err)
		}
		for _, lb := range page.LoadBalancers {
			lbs = append(lbs, models.LoadBalancer{
				Name:    aws.ToString(lb.LoadBalancerName),
				ARN:     aws.ToString(lb.LoadBalancerArn),
				Scheme:  models.LoadBalancerScheme(lb.Scheme),
				DNSName: aws.ToString(lb.DNSName),
			})
		}
	}
	return lbs, nil
}
