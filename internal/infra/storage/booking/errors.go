package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с активным бронированием
	// (нарушение exclusion constraint bookings_no_overlap)
	ErrSlotNotAvailable = errors.New("booking.repository: slot not available")

	// ErrVersionConflict возвращается, когда бронирование изменилось после чтения
	ErrVersionConflict = errors.New("booking.repository: booking was modified concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
