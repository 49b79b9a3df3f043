package container

import (
	"pmwatch/internal/application/port"
	"pmwatch/internal/application/service"
	"pmwatch/internal/application/usecase/monitor"
)

// Container builds application services lazily from the ports handed in by infrastructure.
type Container struct {
	repo      port.ActivityRepository
	source    port.ActivitySource
	publisher port.ActivityPublisher
	limit     int

	monitorService *monitor.Service
	historyService *service.HistoryService
}

func New(repo port.ActivityRepository, source port.ActivitySource, publisher port.ActivityPublisher, limit int) *Container {
	return &Container{
		repo:      repo,
		source:    source,
		publisher: publisher,
		limit:     limit,
	}
}

func (c *Container) Repository() port.ActivityRepository {
	return c.repo
}

func (c *Container) MonitorService() *monitor.Service {
	if c.monitorService == nil {
		c.monitorService = monitor.NewService(monitor.ServiceDeps{
			Source:    c.source,
			Repo:      c.repo,
			Publisher: c.publisher,
			Limit:     c.limit,
		})
	}
	return c.monitorService
}

func (c *Container) HistoryService() *service.HistoryService {
	if c.historyService == nil {
		c.historyService = service.NewHistoryService(c.repo, c.source)
	}
	return c.historyService
}

func (c *Container) Close() error {
	return c.repo.Close()
}
