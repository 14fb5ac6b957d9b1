package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonflow/scheduling-service/internal/domain"
	bookingRepo "github.com/salonflow/scheduling-service/internal/infra/storage/booking"
	"github.com/salonflow/scheduling-service/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	cache       SlotCache
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	cache SlotCache,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		cache:       cache,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Клиент может видеть только своё бронирование, салонная сторона
// (clientID == 0) видит любое
func (s *Service) GetByID(ctx context.Context, id int64, clientID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for client=%d", id, clientID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if clientID != 0 && booking.ClientID != clientID {
		s.logger.Warn("GetByID: access denied for client=%d to booking id=%d", clientID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%d, status=%v", req.ClientID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// GetSalonBookings получает бронирования салона с гибкой фильтрацией:
// по сотруднику, периоду, статусу; OnlyOccupying оставляет только записи,
// занимающие время в календаре
func (s *Service) GetSalonBookings(ctx context.Context, req *models.GetSalonBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetSalonBookings: fetching bookings for salon=%d, employee=%v, status=%v",
		req.SalonID, req.EmployeeID, req.Status)

	if req.RangeStart != nil && req.RangeEnd != nil && req.RangeEnd.Before(*req.RangeStart) {
		s.logger.Warn("GetSalonBookings: invalid range for salon=%d", req.SalonID)
		return nil, fmt.Errorf("%w: rangeEnd must not be before rangeStart", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetSalonBookings: invalid filter for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetBySalonWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetSalonBookings: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: GetSalonBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSalonBookings: successfully fetched %d bookings for salon=%d", len(bookings), req.SalonID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Клиент может отменить только своё бронирование (cancelled_by_client),
// салонная сторона отменяет любое (cancelled_by_salon)
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by client=%d, bySalon=%t",
		bookingID, req.ClientID, req.BySalon)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLen {
		s.logger.Warn("Cancel: cancellation reason too long for booking id=%d", bookingID)
		return fmt.Errorf("%w: cancellation reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLen)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	var cancelStatus domain.BookingStatus
	if req.BySalon {
		cancelStatus = domain.StatusCancelledBySalon
	} else {
		if booking.ClientID != req.ClientID {
			s.logger.Warn("Cancel: access denied for client=%d to cancel booking id=%d", req.ClientID, bookingID)
			return ErrAccessDenied
		}
		cancelStatus = domain.StatusCancelledByClient
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, cancelStatus, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Отмена освобождает интервал, кеш слотов на этот день устарел
	if err := s.cache.InvalidateSalonDay(ctx, booking.SalonID, booking.StartTime); err != nil {
		s.logger.Warn("Cancel: cache invalidation failed: %v", err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d with status=%s", bookingID, cancelStatus)
	return nil
}

// UpdateStatus обновляет статус бронирования (завершение визита, no-show)
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, status string) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s", bookingID, status)

	newStatus, err := models.ToDomainBookingStatus(status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Смена занимающего статуса на освобождающий меняет выдачу слотов
	if booking.IsOccupying() && !newStatus.IsOccupying() {
		if err := s.cache.InvalidateSalonDay(ctx, booking.SalonID, booking.StartTime); err != nil {
			s.logger.Warn("UpdateStatus: cache invalidation failed: %v", err)
		}
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}
