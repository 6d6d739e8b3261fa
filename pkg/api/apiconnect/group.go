package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/mintsense/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService.
const GroupServiceName = "mintsense.v1.GroupService"

const (
	GroupServiceCreateGroupProcedure       = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceGetGroupProcedure          = "/" + GroupServiceName + "/GetGroup"
	GroupServiceListGroupsProcedure        = "/" + GroupServiceName + "/ListGroups"
	GroupServiceUpdateGroupProcedure       = "/" + GroupServiceName + "/UpdateGroup"
	GroupServiceDeleteGroupProcedure       = "/" + GroupServiceName + "/DeleteGroup"
	GroupServiceAddParticipantProcedure    = "/" + GroupServiceName + "/AddParticipant"
	GroupServiceUpdateParticipantProcedure = "/" + GroupServiceName + "/UpdateParticipant"
	GroupServiceRemoveParticipantProcedure = "/" + GroupServiceName + "/RemoveParticipant"
)

// GroupServiceHandler manages groups and their participant rosters.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	UpdateParticipant(context.Context, *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler for the service and returns the path to mount it on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opt := handlerOptions(opts)
	return route("/"+GroupServiceName+"/", map[string]http.Handler{
		GroupServiceCreateGroupProcedure:       unary(GroupServiceCreateGroupProcedure, svc.CreateGroup, opt),
		GroupServiceGetGroupProcedure:          unary(GroupServiceGetGroupProcedure, svc.GetGroup, opt),
		GroupServiceListGroupsProcedure:        unary(GroupServiceListGroupsProcedure, svc.ListGroups, opt),
		GroupServiceUpdateGroupProcedure:       unary(GroupServiceUpdateGroupProcedure, svc.UpdateGroup, opt),
		GroupServiceDeleteGroupProcedure:       unary(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opt),
		GroupServiceAddParticipantProcedure:    unary(GroupServiceAddParticipantProcedure, svc.AddParticipant, opt),
		GroupServiceUpdateParticipantProcedure: unary(GroupServiceUpdateParticipantProcedure, svc.UpdateParticipant, opt),
		GroupServiceRemoveParticipantProcedure: unary(GroupServiceRemoveParticipantProcedure, svc.RemoveParticipant, opt),
	})
}

// GroupServiceClient calls a remote GroupService.
type GroupServiceClient struct {
	createGroup       *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup          *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups        *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	updateGroup       *connect.Client[api.UpdateGroupRequest, api.UpdateGroupResponse]
	deleteGroup       *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	addParticipant    *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	updateParticipant *connect.Client[api.UpdateParticipantRequest, api.UpdateParticipantResponse]
	removeParticipant *connect.Client[api.RemoveParticipantRequest, api.RemoveParticipantResponse]
}

// NewGroupServiceClient creates a client for the service at baseURL (e.g. http://localhost:8080).
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	opt := clientOptions(opts)
	return &GroupServiceClient{
		createGroup:       call[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL, GroupServiceCreateGroupProcedure, opt),
		getGroup:          call[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL, GroupServiceGetGroupProcedure, opt),
		listGroups:        call[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL, GroupServiceListGroupsProcedure, opt),
		updateGroup:       call[api.UpdateGroupRequest, api.UpdateGroupResponse](httpClient, baseURL, GroupServiceUpdateGroupProcedure, opt),
		deleteGroup:       call[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, baseURL, GroupServiceDeleteGroupProcedure, opt),
		addParticipant:    call[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL, GroupServiceAddParticipantProcedure, opt),
		updateParticipant: call[api.UpdateParticipantRequest, api.UpdateParticipantResponse](httpClient, baseURL, GroupServiceUpdateParticipantProcedure, opt),
		removeParticipant: call[api.RemoveParticipantRequest, api.RemoveParticipantResponse](httpClient, baseURL, GroupServiceRemoveParticipantProcedure, opt),
	}
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	return c.updateGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *GroupServiceClient) UpdateParticipant(ctx context.Context, req *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error) {
	return c.updateParticipant.CallUnary(ctx, req)
}

func (c *GroupServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}
