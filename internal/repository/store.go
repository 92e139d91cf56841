package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/academy-ledger-api/internal/models"
)

type entity[T any] interface {
	Clone() T
}

// collection keeps entities by id and remembers insertion order.
type collection[T entity[T]] struct {
	items map[string]T
	order []string
}

func newCollection[T entity[T]]() collection[T] {
	return collection[T]{items: make(map[string]T)}
}

func (c collection[T]) clone() collection[T] {
	cp := collection[T]{
		items: make(map[string]T, len(c.items)),
		order: append([]string(nil), c.order...),
	}
	for id, item := range c.items {
		cp.items[id] = item.Clone()
	}
	return cp
}

func (c collection[T]) get(id string) (T, bool) {
	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return item.Clone(), true
}

func (c collection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id].Clone())
	}
	return out
}

func (c *collection[T]) put(id string, item T) {
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = item.Clone()
}

func (c *collection[T]) remove(id string) bool {
	if _, exists := c.items[id]; !exists {
		return false
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

type ledgerState struct {
	students   collection[models.Student]
	courses    collection[models.Course]
	mentors    collection[models.Mentor]
	classrooms collection[models.Classroom]
	invoices   collection[models.Invoice]
	payments   []models.PaymentRecord
}

func newLedgerState() *ledgerState {
	return &ledgerState{
		students:   newCollection[models.Student](),
		courses:    newCollection[models.Course](),
		mentors:    newCollection[models.Mentor](),
		classrooms: newCollection[models.Classroom](),
		invoices:   newCollection[models.Invoice](),
	}
}

func (s *ledgerState) clone() *ledgerState {
	return &ledgerState{
		students:   s.students.clone(),
		courses:    s.courses.clone(),
		mentors:    s.mentors.clone(),
		classrooms: s.classrooms.clone(),
		invoices:   s.invoices.clone(),
		payments:   append([]models.PaymentRecord(nil), s.payments...),
	}
}

// StoreConfig customises the clock and id generator used by the store.
type StoreConfig struct {
	Now   func() time.Time
	NewID func() string
}

// Store owns every ledger collection behind a single lock. Readers run
// under the read lock; writers work on a private copy that replaces the
// live state only when the callback succeeds.
type Store struct {
	mu    sync.RWMutex
	state *ledgerState
	now   func() time.Time
	newID func() string
}

// NewStore creates an empty store.
func NewStore(cfg StoreConfig) *Store {
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Store{state: newLedgerState(), now: cfg.Now, newID: cfg.NewID}
}

// Now returns the store clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// View runs fn against a consistent read-only view of the state.
func (s *Store) View(ctx context.Context, fn func(tx ReadTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(ReadTx{state: s.state, now: s.now})
}

// Update runs fn inside an exclusive transaction. Changes become visible
// only if fn returns nil; otherwise the state is left untouched.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	tx := &Tx{ReadTx: ReadTx{state: working, now: s.now}, newID: s.newID}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = working
	return nil
}

// Export returns a deep copy of the whole state.
func (s *Store) Export() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Snapshot{
		Students:   s.state.students.list(),
		Courses:    s.state.courses.list(),
		Mentors:    s.state.mentors.list(),
		Classrooms: s.state.classrooms.list(),
		Invoices:   s.state.invoices.list(),
		Payments:   append([]models.PaymentRecord{}, s.state.payments...),
		ExportedAt: s.now(),
	}
}

// Import replaces the whole state with the snapshot contents.
func (s *Store) Import(snapshot models.Snapshot) {
	state := newLedgerState()
	for _, student := range snapshot.Students {
		state.students.put(student.ID, student)
	}
	for _, course := range snapshot.Courses {
		state.courses.put(course.ID, course)
	}
	for _, mentor := range snapshot.Mentors {
		state.mentors.put(mentor.ID, mentor)
	}
	for _, classroom := range snapshot.Classrooms {
		state.classrooms.put(classroom.ID, classroom)
	}
	for _, invoice := range snapshot.Invoices {
		state.invoices.put(invoice.ID, invoice)
	}
	state.payments = append([]models.PaymentRecord(nil), snapshot.Payments...)

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// ReadTx exposes read access to the state. Returned entities are copies.
type ReadTx struct {
	state *ledgerState
	now   func() time.Time
}

// Now returns the store clock.
func (tx ReadTx) Now() time.Time { return tx.now() }

// Student returns the student by id.
func (tx ReadTx) Student(id string) (models.Student, bool) { return tx.state.students.get(id) }

// Students lists students in insertion order.
func (tx ReadTx) Students() []models.Student { return tx.state.students.list() }

// Course returns the course by id.
func (tx ReadTx) Course(id string) (models.Course, bool) { return tx.state.courses.get(id) }

// Courses lists courses in insertion order.
func (tx ReadTx) Courses() []models.Course { return tx.state.courses.list() }

// Mentor returns the mentor by id.
func (tx ReadTx) Mentor(id string) (models.Mentor, bool) { return tx.state.mentors.get(id) }

// Mentors lists mentors in insertion order.
func (tx ReadTx) Mentors() []models.Mentor { return tx.state.mentors.list() }

// MentorByUserID finds the mentor profile owned by a user.
func (tx ReadTx) MentorByUserID(userID string) (models.Mentor, bool) {
	for _, id := range tx.state.mentors.order {
		if mentor := tx.state.mentors.items[id]; mentor.UserID == userID {
			return mentor.Clone(), true
		}
	}
	return models.Mentor{}, false
}

// Classroom returns the classroom by id.
func (tx ReadTx) Classroom(id string) (models.Classroom, bool) {
	return tx.state.classrooms.get(id)
}

// Classrooms lists classrooms in insertion order.
func (tx ReadTx) Classrooms() []models.Classroom { return tx.state.classrooms.list() }

// Invoice returns the invoice by id.
func (tx ReadTx) Invoice(id string) (models.Invoice, bool) { return tx.state.invoices.get(id) }

// Invoices lists invoices in insertion order.
func (tx ReadTx) Invoices() []models.Invoice { return tx.state.invoices.list() }

// Payments returns payments for invoiceID in append order, or every payment
// when invoiceID is empty.
func (tx ReadTx) Payments(invoiceID string) []models.PaymentRecord {
	out := make([]models.PaymentRecord, 0)
	for _, payment := range tx.state.payments {
		if invoiceID == "" || payment.InvoiceID == invoiceID {
			out = append(out, payment)
		}
	}
	return out
}

// Tx is a writable transaction. Writes only touch the transaction's private
// copy of the state.
type Tx struct {
	ReadTx
	newID func() string
}

// NewID returns a fresh identifier.
func (tx *Tx) NewID() string { return tx.newID() }

// PutStudent inserts or replaces a student.
func (tx *Tx) PutStudent(student models.Student) { tx.state.students.put(student.ID, student) }

// DeleteStudent removes a student, reporting whether it existed.
func (tx *Tx) DeleteStudent(id string) bool { return tx.state.students.remove(id) }

// PutCourse inserts or replaces a course.
func (tx *Tx) PutCourse(course models.Course) { tx.state.courses.put(course.ID, course) }

// DeleteCourse removes a course, reporting whether it existed.
func (tx *Tx) DeleteCourse(id string) bool { return tx.state.courses.remove(id) }

// PutMentor inserts or replaces a mentor.
func (tx *Tx) PutMentor(mentor models.Mentor) { tx.state.mentors.put(mentor.ID, mentor) }

// DeleteMentor removes a mentor, reporting whether it existed.
func (tx *Tx) DeleteMentor(id string) bool { return tx.state.mentors.remove(id) }

// PutClassroom inserts or replaces a classroom.
func (tx *Tx) PutClassroom(classroom models.Classroom) {
	tx.state.classrooms.put(classroom.ID, classroom)
}

// DeleteClassroom removes a classroom, reporting whether it existed.
func (tx *Tx) DeleteClassroom(id string) bool { return tx.state.classrooms.remove(id) }

// PutInvoice inserts or replaces an invoice.
func (tx *Tx) PutInvoice(invoice models.Invoice) { tx.state.invoices.put(invoice.ID, invoice) }

// DeleteInvoice removes an invoice, reporting whether it existed. Payments
// recorded against it are kept.
func (tx *Tx) DeleteInvoice(id string) bool { return tx.state.invoices.remove(id) }

// AppendPayment adds a payment to the append-only payment ledger.
func (tx *Tx) AppendPayment(payment models.PaymentRecord) {
	tx.state.payments = append(tx.state.payments, payment)
}
