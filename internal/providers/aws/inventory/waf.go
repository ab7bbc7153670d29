package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	wafv2svc "github.com/aws/aws-sdk-go-v2/service/wafv2"
	waftypes "github.com/aws/aws-sdk-go-v2/service/wafv2/types"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

func wafScope(scope string) waftypes.Scope {
	return waftypes.Scope(strings.ToUpper(scope))
}

// listWebACLs returns every web ACL summary in scope. WAFv2 has no SDK
// paginator, so NextMarker is followed by hand.
func listWebACLs(ctx context.Context, client wafAPIClient, scope string) ([]models.WebACL, error) {
	input := &wafv2svc.ListWebACLsInput{Scope: wafScope(scope)}

	var acls []models.WebACL
	for {
		out, err := client.ListWebACLs(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list web acls (%s): %w", scope, err)
		}
		for _, s := range out.WebACLs {
			acls = append(acls, models.WebACL{
				Name: aws.ToString(s.Name),
				ID:   aws.ToString(s.Id),
				ARN:  aws.ToString(s.ARN),
			})
		}
		if aws.ToString(out.NextMarker) == "" || len(out.WebACLs) == 0 {
			return acls, nil
		}
		input.NextMarker = out.NextMarker
	}
}

// countWebACLRules fetches one web ACL and returns its rule count.
func countWebACLRules(ctx context.Context, client wafAPIClient, scope, name, id string) (int, error) {
	out, err := client.GetWebACL(ctx, &wafv2svc.GetWebACLInput{
		Name:  aws.String(name),
		Id:    aws.String(id),
		Scope: wafScope(scope),
	})
	if err != nil {
		return 0, fmt.Errorf("get web acl %s: %w", name, err)
	}
	if out.WebACL == nil {
		return 0, fmt.Errorf("get web acl %s: empty response", name)
	}
	return len(out.WebACL.Rules), nil
}
