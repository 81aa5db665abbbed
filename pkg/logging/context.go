package logging

import (
	"context"
)

type contextKey string

const (
	RequestIDKey     contextKey = "request_id"
	InteractionIDKey contextKey = "interaction_id"
	ChannelIDKey     contextKey = "channel_id"
	ServiceNameKey   contextKey = "service_name"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithInteractionID(ctx context.Context, interactionID string) context.Context {
	return context.WithValue(ctx, InteractionIDKey, interactionID)
}

func WithChannelID(ctx context.Context, channelID string) context.Context {
	return context.WithValue(ctx, ChannelIDKey, channelID)
}

func WithServiceName(ctx context.Context, serviceName string) context.Context {
	return context.WithValue(ctx, ServiceNameKey, serviceName)
}

func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

func GetInteractionID(ctx context.Context) string {
	return stringValue(ctx, InteractionIDKey)
}

func GetChannelID(ctx context.Context) string {
	return stringValue(ctx, ChannelIDKey)
}

func GetServiceName(ctx context.Context) string {
	return stringValue(ctx, ServiceNameKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// GetLogFields returns the key/value pairs carried by ctx, ready for a sugared logger.
func GetLogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, 8)

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, string(RequestIDKey), requestID)
	}

	if interactionID := GetInteractionID(ctx); interactionID != "" {
		fields = append(fields, string(InteractionIDKey), interactionID)
	}

	if channelID := GetChannelID(ctx); channelID != "" {
		fields = append(fields, string(ChannelIDKey), channelID)
	}

	if serviceName := GetServiceName(ctx); serviceName != "" {
		fields = append(fields, string(ServiceNameKey), serviceName)
	}

	return fields
}
