package handler

import "lowa/internal/listing/models"

type submittedResponse struct {
	Status string `json:"status"`
}

type invitationListResponse struct {
	Invitations []models.InvitationView `json:"invitations"`
}

type visitorRequestListResponse struct {
	VisitorRequests []models.VisitorRequestView `json:"visitor_requests"`
}
