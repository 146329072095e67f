// Package service provides application-level services for the progress
// engine: XP awarding, daily goals, lesson progress, and achievement awards.
// Services orchestrate stores and emit progress events; they hold no
// transport or storage details of their own.
package service
