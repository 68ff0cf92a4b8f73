package ham

import (
	"context"
	"net/http"
	"net/url"
)

type trackingService struct {
	client *Client
}

func (s *trackingService) Get(ctx context.Context) (*TrackingInfo, error) {
	var info TrackingInfo
	if err := s.client.do(ctx, http.MethodGet, RouteTracking, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *trackingService) Daily(ctx context.Context) (*DailyMovement, error) {
	var daily DailyMovement
	if err := s.client.do(ctx, http.MethodGet, RouteDailyMovement, nil, &daily); err != nil {
		return nil, err
	}
	return &daily, nil
}

type movementService struct {
	client *Client
}

func (s *movementService) Recent(ctx context.Context, first bool) (*RecentMovements, error) {
	isFirst := "0"
	if first {
		isFirst = "1"
	}
	query := url.Values{QueryIsFirst: []string{isFirst}}

	var resp RecentMovements
	if err := s.client.do(ctx, http.MethodGet, RouteRecentMovements, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type dietService struct {
	client *Client
}

func (s *dietService) Get(ctx context.Context) (*DietInfo, error) {
	var info DietInfo
	if err := s.client.do(ctx, http.MethodGet, RouteDiet, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

type waterService struct {
	client *Client
}

func (s *waterService) Get(ctx context.Context) (*WaterInfo, error) {
	var info WaterInfo
	if err := s.client.do(ctx, http.MethodGet, RouteWater, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

type sleepService struct {
	client *Client
}

func (s *sleepService) Get(ctx context.Context) (*SleepInfo, error) {
	var info SleepInfo
	if err := s.client.do(ctx, http.MethodGet, RouteSleep, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

type adviceService struct {
	client *Client
}

func (s *adviceService) Get(ctx context.Context) (*Advice, error) {
	var advice Advice
	if err := s.client.do(ctx, http.MethodGet, RouteAdvice, nil, &advice); err != nil {
		return nil, err
	}
	return &advice, nil
}
