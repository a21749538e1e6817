// Package api contains the HTTP handlers, request/response models, and
// error mapping for the task-board service. Handlers stay thin: they decode
// and validate the payload, call a service method, and translate the result
// through HandleAPIError / RespondWithJSON.
package api
