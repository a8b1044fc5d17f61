// Package navmesh2d finds agent paths over baked 2D navigation data.
//
// It exposes two main entry points:
//
//   - Service.FindPath: run a search to completion on the caller's goroutine.
//   - Service.FindPathAsync: schedule the search on the worker pool and take
//     the result later through a PendingPath.
//
// Navigation data is produced by package bake and described by package
// navdata. The search itself lives in package astar.
package navmesh2d
