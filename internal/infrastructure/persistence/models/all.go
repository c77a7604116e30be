package models

// All returns every persistence model, in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&UserModel{},
		&CustomerModel{},
		&LeadModel{},
		&LeadHistoryModel{},
		&ActivityModel{},
		&NoteModel{},
		&DealModel{},
		&FollowupModel{},
		&OpportunityModel{},
		&TicketModel{},
		&TicketResponseModel{},
		&CampaignModel{},
		&EmailTemplateModel{},
		&SegmentModel{},
		&NotificationModel{},
		&ReportModel{},
		&WorkflowRuleModel{},
		&WorkflowActionModel{},
		&WorkflowLogModel{},
	}
}
