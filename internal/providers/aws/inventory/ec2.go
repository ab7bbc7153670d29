package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// unnamedInstance is reported for instances without a Name tag.
const unnamedInstance = "Unknown"

// findVPCByName returns the ID of the first VPC whose Name tag equals name.
// An empty ID with a nil error means no VPC carries the tag.
func findVPCByName(ctx context.Context, client ec2APIClient, name string) (string, error) {
	out, err := client.DescribeVpcs(ctx, &ec2svc.DescribeVpcsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("tag:Name"), Values: []string{name}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("describe vpcs named %q: %w", name, err)
	}
	for _, vpc := range out.Vpcs {
		if id := aws.ToString(vpc.VpcId); id != "" {
			return id, nil
		}
	}
	return "", nil
}

// collectSecurityGroups lists the security groups of vpcID with their
// inbound permissions. Both IPv4 and IPv6 ranges are kept so rules see every
// unrestricted range.
func collectSecurityGroups(ctx context.Context, client ec2APIClient, vpcID string) ([]models.SecurityGroup, error) {
	paginator := ec2svc.NewDescribeSecurityGroupsPaginator(client, &ec2svc.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("vpc-id"), Values: []string{vpcID}},
		},
	})

	var groups []models.SecurityGroup
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe security groups in %s: %w", vpcID, err)
		}
		for _, sg := range page.SecurityGroups {
			group := models.SecurityGroup{
				ID:    aws.ToString(sg.GroupId),
				Name:  aws.ToString(sg.GroupName),
				VPCID: aws.ToString(sg.VpcId),
			}
			for _, perm := range sg.IpPermissions {
				rule := models.IngressRule{Port: ingressPort(perm)}
				for _, r := range perm.IpRanges {
					rule.CIDRs = append(rule.CIDRs, aws.ToString(r.CidrIp))
				}
				for _, r := range perm.Ipv6Ranges {
					rule.CIDRs = append(rule.CIDRs, aws.ToString(r.CidrIpv6))
				}
				group.Ingress = append(group.Ingress, rule)
			}
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// ingressPort returns the FromPort of perm, or nil when the permission
// covers all traffic.
func ingressPort(perm ec2types.IpPermission) *int32 {
	if aws.ToString(perm.IpProtocol) == "-1" || perm.FromPort == nil || *perm.FromPort < 0 {
		return nil
	}
	p := *perm.FromPort
	return &p
}

// collectInstances lists every instance in vpcID across all reservations.
func collectInstances(ctx context.Context, client ec2APIClient, vpcID string) ([]models.Instance, error) {
	paginator := ec2svc.NewDescribeInstancesPaginator(client, &ec2svc.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("vpc-id"), Values: []string{vpcID}},
		},
	})

	var instances []models.Instance
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe instances in %s: %w", vpcID, err)
		}
		for _, res := range page.Reservations {
			for _, inst := range res.Instances {
				instances = append(instances, models.Instance{
					ID:       aws.ToString(inst.InstanceId),
					Name:     nameTag(inst.Tags),
					PublicIP: aws.ToString(inst.PublicIpAddress),
				})
			}
		}
	}
	return instances, nil
}

func nameTag(tags []ec2types.Tag) string {
	for _, t := range tags {
		if aws.ToString(t.Key) == "Name" {
			return aws.ToString(t.Value)
		}
	}
	return unnamedInstance
}

// findPeering returns the peering connections whose requester is
// requesterVPC and whose accepter is accepterVPC, in API order.
func findPeering(ctx context.Context, client ec2APIClient, requesterVPC, accepterVPC string) ([]models.PeeringConnection, error) {
	paginator := ec2svc.NewDescribeVpcPeeringConnectionsPaginator(client, &ec2svc.DescribeVpcPeeringConnectionsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("requester-vpc-info.vpc-id"), Values: []string{requesterVPC}},
			{Name: aws.String("accepter-vpc-info.vpc-id"), Values: []string{accepterVPC}},
		},
	})

	var conns []models.PeeringConnection
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe vpc peering %s -> %s: %w", requesterVPC, accepterVPC, err)
		}
		for _, pc := range page.VpcPeeringConnections {
			conn := models.PeeringConnection{ID: aws.ToString(pc.VpcPeeringConnectionId)}
			if pc.RequesterVpcInfo != nil {
				conn.RequesterVPCID = aws.ToString(pc.RequesterVpcInfo.VpcId)
			}
			if pc.AccepterVpcInfo != nil {
				conn.AccepterVPCID = aws.ToString(pc.AccepterVpcInfo.VpcId)
			}
			if pc.Status != nil {
				conn.StatusCode = string(pc.Status.Code)
			}
			conns = append(conns, conn)
		}
	}
	return conns, nil
}
