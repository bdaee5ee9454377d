package enum

type TargetAudience string

const (
	TargetAudienceAll                TargetAudience = "all"
	TargetAudienceSpecificBranch     TargetAudience = "specific_branch"
	TargetAudienceNewCustomers       TargetAudience = "new_customers"
	TargetAudienceReturningCustomers TargetAudience = "returning_customers"
)

func (a TargetAudience) IsValid() bool {
	switch a {
	case TargetAudienceAll, TargetAudienceSpecificBranch, TargetAudienceNewCustomers, TargetAudienceReturningCustomers:
		return true
	}
	return false
}
