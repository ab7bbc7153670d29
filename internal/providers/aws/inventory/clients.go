package inventory

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	elbv2svc "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	wafv2svc "github.com/aws/aws-sdk-go-v2/service/wafv2"
)

// ec2APIClient is the narrow EC2 interface used for tier inventory. It embeds
// the SDK paginator client interfaces so paginators can be used directly.
type ec2APIClient interface {
	DescribeVpcs(ctx context.Context, params *ec2svc.DescribeVpcsInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeVpcsOutput, error)
	ec2svc.DescribeSecurityGroupsAPIClient
	ec2svc.DescribeInstancesAPIClient
	ec2svc.DescribeVpcPeeringConnectionsAPIClient
}

// elbv2APIClient is the narrow ELBv2 interface for load balancer listing.
type elbv2APIClient interface {
	elbv2svc.DescribeLoadBalancersAPIClient
}

// wafAPIClient is the narrow WAFv2 interface. ListWebACLs returns summaries
// only; GetWebACL is called for the matched ACL to count its rules.
type wafAPIClient interface {
	ListWebACLs(ctx context.Context, params *wafv2svc.ListWebACLsInput, optFns ...func(*wafv2svc.Options)) (*wafv2svc.ListWebACLsOutput, error)
	GetWebACL(ctx context.Context, params *wafv2svc.GetWebACLInput, optFns ...func(*wafv2svc.Options)) (*wafv2svc.GetWebACLOutput, error)
}

// invClients bundles the AWS service clients for one region.
type invClients struct {
	EC2   ec2APIClient
	ELBv2 elbv2APIClient
	WAF   wafAPIClient
}

// invClientFactory creates invClients from an AWS config.
// Injection point: tests replace this with a function returning fake clients.
type invClientFactory func(cfg aws.Config) *invClients

// newDefaultInvClients creates production AWS SDK clients from the given config.
func newDefaultInvClients(cfg aws.Config) *invClients {
	return &invClients{
		EC2:   ec2svc.NewFromConfig(cfg),
		ELBv2: elbv2svc.NewFromConfig(cfg),
		WAF:   wafv2svc.NewFromConfig(cfg),
	}
}
