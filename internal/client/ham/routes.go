package ham

// Backend routes, shared with the mock server.
const (
	RouteDailyMovement   = "/daily_movement"
	RouteRecentMovements = "/recent_movements"
	RouteTracking        = "/get_tracking_info"
	RouteDiet            = "/get_diet_info"
	RouteWater           = "/get_water_info"
	RouteSleep           = "/get_sleep_info"
	RouteAdvice          = "/get_gpt_advice"
)

// QueryIsFirst selects a full (1) or incremental (0) movements fetch.
const QueryIsFirst = "isfirst"
