package kong

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/murabei/pumpwood-kong/internal/testing/kongtest"
)

func TestParseServiceRef(t *testing.T) {
	t.Parallel()

	ref, err := ParseServiceRef("1234", "")
	require.NoError(t, err)
	require.True(t, ref.IsID())
	require.Equal(t, "1234", ref.Value())
	require.Equal(t, "id:1234", ref.String())

	ref, err = ParseServiceRef("", "svc")
	require.NoError(t, err)
	require.False(t, ref.IsID())
	require.Equal(t, "name:svc", ref.String())

	var configErr *ConfigurationError
	_, err = ParseServiceRef("", "")
	require.ErrorAs(t, err, &configErr)
	_, err = ParseServiceRef("1234", "svc")
	require.ErrorAs(t, err, &configErr)
}

func TestServiceRef_MarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ServiceByID("1234"))
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"1234"}`, string(data))

	data, err = json.Marshal(ServiceByName("svc"))
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"svc"}`, string(data))

	_, err = json.Marshal(ServiceRef{})
	require.Error(t, err)
}

func TestRegisterRoute(t *testing.T) {
	t.Parallel()

	server := kongtest.NewServer(t)
	client := testClient(t, server)
	service := server.AddService("svc", "http://svc")

	for _, tt := range []struct {
		name      string
		ref       ServiceRef
		stripPath bool
		wantRef   string
	}{
		{name: "by-id", ref: ServiceByID(service.ID), wantRef: `{"id":"` + service.ID + `"}`},
		{name: "by-name", ref: ServiceByName("svc"), stripPath: true, wantRef: `{"name":"svc"}`},
	} {
		before := len(server.Requests())

		route, err := client.RegisterRoute(context.Background(), RouteRegistration{
			Name:      tt.name,
			Path:      "/" + tt.name + "/",
			Service:   tt.ref,
			StripPath: tt.stripPath,
		})
		require.NoError(t, err)
		require.NotEmpty(t, route.ID)
		require.Equal(t, service.ID, route.ServiceID())
		require.Equal(t, []string{"/" + tt.name + "/"}, route.Paths)
		require.Equal(t, tt.stripPath, route.StripPath)

		requests := server.Requests()[before:]
		require.Len(t, requests, 1)
		require.Equal(t, "/routes/"+tt.name, requests[0].Path)

		payload := map[string]json.RawMessage{}
		require.NoError(t, json.Unmarshal([]byte(requests[0].Body), &payload))
		require.JSONEq(t, tt.wantRef, string(payload["service"]))
	}
}

func TestRegisterRoute_Configuration(t *testing.T) {
	t.Parallel()

	server := kongtest.NewServer(t)
	client := testClient(t, server)

	for _, registration := range []RouteRegistration{
		{Name: "route", Path: "/route/"},
		{Name: "route", Path: "/route/", Service: ServiceByID("")},
		{Path: "/route/", Service: ServiceByName("svc")},
		{Name: "route", Service: ServiceByName("svc")},
	} {
		_, err := client.RegisterRoute(context.Background(), registration)
		var configErr *ConfigurationError
		require.ErrorAs(t, err, &configErr)
	}
	require.Empty(t, server.Requests())
}

func TestRegisterRoute_UnknownService(t *testing.T) {
	t.Parallel()

	server := kongtest.NewServer(t)

	_, err := testClient(t, server).RegisterRoute(context.Background(), RouteRegistration{
		Name:    "route",
		Path:    "/route/",
		Service: ServiceByName("missing"),
	})
	var requestErr *GatewayRequestError
	require.ErrorAs(t, err, &requestErr)
	require.Equal(t, http.StatusBadRequest, requestErr.StatusCode)
	require.Contains(t, requestErr.Body, "does not exist")
}

func TestModelRoutes_Paths(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name   string
		routes ModelRoutes
		want   []string
	}{
		{
			name:   "defaults",
			routes: ModelRoutes{Models: []string{"ModelA", "ModelB"}},
			want:   []string{"/rest/modela/", "/rest/modelb/"},
		},
		{
			name:   "keeps input order",
			routes: ModelRoutes{Models: []string{"Zeta", "Alpha"}},
			want:   []string{"/rest/zeta/", "/rest/alpha/"},
		},
		{
			name:   "suffix",
			routes: ModelRoutes{Models: []string{"DescriptionModel"}, EndpointSuffix: "Dev-"},
			want:   []string{"/rest/dev-descriptionmodel/"},
		},
		{
			name:   "prefix",
			routes: ModelRoutes{Models: []string{"Registration"}, PathPrefix: "/api/"},
			want:   []string{"/api/registration/"},
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.routes.Paths())
		})
	}
}

func TestRegisterModelRoutes(t *testing.T) {
	t.Parallel()

	server := kongtest.NewServer(t)
	client := testClient(t, server)
	service := server.AddService("svc", "http://svc")

	route, err := client.RegisterModelRoutes(context.Background(), ModelRoutes{
		Service: ServiceByName("svc"),
		Models:  []string{"ModelA", "ModelB"},
	})
	require.NoError(t, err)
	require.Equal(t, "svc--endpoints", route.Name)
	require.Equal(t, []string{"/rest/modela/", "/rest/modelb/"}, route.Paths)
	require.False(t, route.StripPath)
	require.Equal(t, service.ID, route.ServiceID())

	route, err = client.RegisterModelRoutes(context.Background(), ModelRoutes{
		Service:   ServiceByID(service.ID),
		Models:    []string{"ModelC"},
		RouteName: "svc--endpoints",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/rest/modelc/"}, route.Paths)
	require.Len(t, server.Routes(), 1)
}

func TestRegisterModelRoutes_Empty(t *testing.T) {
	t.Parallel()

	server := kongtest.NewServer(t)

	route, err := testClient(t, server).RegisterModelRoutes(context.Background(), ModelRoutes{
		Service: ServiceByName("svc"),
	})
	require.NoError(t, err)
	require.Nil(t, route)
	require.Empty(t, server.Requests())
}

func TestRegisterModelRoutes_Configuration(t *testing.T) {
	t.Parallel()

	server := kongtest.NewServer(t)

	_, err := testClient(t, server).RegisterModelRoutes(context.Background(), ModelRoutes{
		Models: []string{"ModelA"},
	})
	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
	require.Empty(t, server.Requests())
}

func TestListServiceRoutes(t *testing.T) {
	t.Parallel()

	server := kongtest.NewServer(t)
	client := testClient(t, server)
	first := server.AddService("first", "http://first")
	second := server.AddService("second", "http://second")
	server.AddRoute("first-a", first.ID, "/a/")
	server.AddRoute("second-b", second.ID, "/b/")
	server.AddRoute("first-c", first.ID, "/c/", "/d/")

	routes, err := client.ListServiceRoutes(context.Background(), first.ID)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	require.Equal(t, "first-a", routes[0].Name)
	require.Equal(t, "first-c", routes[1].Name)
	require.Equal(t, []string{"/c/", "/d/"}, routes[1].Paths)

	all, err := client.ListRoutes(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestDeleteRoute(t *testing.T) {
	t.Parallel()

	server := kongtest.NewServer(t)
	client := testClient(t, server)
	service := server.AddService("svc", "http://svc")
	route := server.AddRoute("route", service.ID, "/route/")

	require.NoError(t, client.DeleteRoute(context.Background(), route.ID))
	require.Empty(t, server.Routes())

	server.Fail(http.MethodDelete, "/routes/"+route.ID, http.StatusNotFound, `{"message":"Not found"}`)
	err := client.DeleteRoute(context.Background(), route.ID)
	require.True(t, IsNotFound(err))
}
