package returns

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/shared/valueobject"
)

// ReturnStatus represents the status of a product return
type ReturnStatus string

const (
	ReturnStatusPending    ReturnStatus = "pending"    // Awaiting inspection and approval
	ReturnStatusApproved   ReturnStatus = "approved"   // Approved, ready for processing
	ReturnStatusRejected   ReturnStatus = "rejected"   // Rejected by approver
	ReturnStatusProcessing ReturnStatus = "processing" // Inventory restoration in progress
	ReturnStatusCompleted  ReturnStatus = "completed"  // Processed, eligible for refund
	ReturnStatusRefunded   ReturnStatus = "refunded"   // Fully refunded
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRejected,
		ReturnStatusProcessing, ReturnStatusCompleted, ReturnStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of ReturnStatus
func (s ReturnStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	switch s {
	case ReturnStatusPending:
		return target == ReturnStatusApproved || target == ReturnStatusRejected
	case ReturnStatusApproved:
		return target == ReturnStatusProcessing || target == ReturnStatusRejected
	case ReturnStatusProcessing:
		return target == ReturnStatusCompleted
	case ReturnStatusCompleted:
		return target == ReturnStatusRefunded
	case ReturnStatusRejected, ReturnStatusRefunded:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s ReturnStatus) IsTerminal() bool {
	return s == ReturnStatusRejected || s == ReturnStatusRefunded
}

// ReturnType represents where the returned goods come back through
type ReturnType string

const (
	ReturnTypeCustomer  ReturnType = "customer_return"
	ReturnTypeStore     ReturnType = "store_return"
	ReturnTypeWarehouse ReturnType = "warehouse_return"
)

// IsValid checks if the return type is known
func (t ReturnType) IsValid() bool {
	switch t {
	case ReturnTypeCustomer, ReturnTypeStore, ReturnTypeWarehouse:
		return true
	}
	return false
}

// ReturnReason represents why the customer is returning the goods
type ReturnReason string

const (
	ReasonDefectiveProduct        ReturnReason = "defective_product"
	ReasonWrongItem               ReturnReason = "wrong_item"
	ReasonNotAsDescribed          ReturnReason = "not_as_described"
	ReasonCustomerDissatisfaction ReturnReason = "customer_dissatisfaction"
	ReasonSizeIssue               ReturnReason = "size_issue"
	ReasonColorIssue              ReturnReason = "color_issue"
	ReasonQualityIssue            ReturnReason = "quality_issue"
	ReasonLateDelivery            ReturnReason = "late_delivery"
	ReasonChangedMind             ReturnReason = "changed_mind"
	ReasonDuplicateOrder          ReturnReason = "duplicate_order"
	ReasonOther                   ReturnReason = "other"
)

// IsValid checks if the reason is known
func (r ReturnReason) IsValid() bool {
	switch r {
	case ReasonDefectiveProduct, ReasonWrongItem, ReasonNotAsDescribed,
		ReasonCustomerDissatisfaction, ReasonSizeIssue, ReasonColorIssue,
		ReasonQualityIssue, ReasonLateDelivery, ReasonChangedMind,
		ReasonDuplicateOrder, ReasonOther:
		return true
	}
	return false
}

// ItemCondition describes the physical state of a returned item
type ItemCondition string

const (
	ConditionNew       ItemCondition = "new"
	ConditionOpened    ItemCondition = "opened"
	ConditionUsed      ItemCondition = "used"
	ConditionDamaged   ItemCondition = "damaged"
	ConditionDefective ItemCondition = "defective"
)

// IsValid checks if the condition is known
func (c ItemCondition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionOpened, ConditionUsed, ConditionDamaged, ConditionDefective:
		return true
	}
	return false
}

// ProductReturnItem represents a line item in a product return
type ProductReturnItem struct {
	ID          uuid.UUID
	ReturnID    uuid.UUID
	OrderItemID uuid.UUID // Reference to the original order line
	ProductID   uuid.UUID
	BatchID     *uuid.UUID // Batch to restore stock into, nil if untracked
	ProductName string
	ProductSKU  string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // Price per unit from the original order
	LineValue   decimal.Decimal // Quantity * UnitPrice
	Condition   ItemCondition
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProductReturnItem creates a new return line item
func NewProductReturnItem(
	returnID, orderItemID, productID uuid.UUID,
	batchID *uuid.UUID,
	productName, productSKU string,
	quantity decimal.Decimal,
	unitPrice valueobject.Money,
	condition ItemCondition,
) (*ProductReturnItem, error) {
	if orderItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ITEM", "Order item ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if !condition.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONDITION", fmt.Sprintf("Unknown item condition %q", condition))
	}

	now := time.Now()
	return &ProductReturnItem{
		ID:          uuid.New(),
		ReturnID:    returnID,
		OrderItemID: orderItemID,
		ProductID:   productID,
		BatchID:     batchID,
		ProductName: productName,
		ProductSKU:  productSKU,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		LineValue:   quantity.Mul(unitPrice.Amount()),
		Condition:   condition,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetLineValueMoney returns the line value as Money
func (i *ProductReturnItem) GetLineValueMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.LineValue)
}

// GetUnitPriceMoney returns the unit price as Money
func (i *ProductReturnItem) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.UnitPrice)
}

// ProductReturn is the aggregate root for a customer return.
// It owns the line items, the inspection result, and the lifecycle from
// request through refund.
type ProductReturn struct {
	shared.AuditedAggregateRoot
	ReturnNumber      string
	OrderID           uuid.UUID
	OrderNumber       string
	CustomerID        uuid.UUID
	StoreID           uuid.UUID
	Type              ReturnType
	Reason            ReturnReason
	ReasonDetail      string
	Status            ReturnStatus
	Items             []ProductReturnItem `gorm:"foreignKey:ReturnID"`
	TotalReturnValue  decimal.Decimal // Sum of item line values
	TotalRefundAmount decimal.Decimal // Approved refundable amount, never above TotalReturnValue
	ProcessingFee     decimal.Decimal // Deducted from computed refunds, adjustable until approval

	QualityCheckPassed *bool // nil until inspected
	QualityCheckNotes  string
	QualityCheckedBy   *uuid.UUID
	QualityCheckedAt   *time.Time

	ReceivedAtStore bool

	RequestedAt     time.Time
	ApprovedBy      *uuid.UUID
	ApprovedAt      *time.Time
	RejectedBy      *uuid.UUID
	RejectedAt      *time.Time
	RejectionReason string
	ProcessedBy     *uuid.UUID
	ProcessedAt     *time.Time
	CompletedAt     *time.Time
	RefundedAt      *time.Time
}

// NewProductReturn creates a new product return in pending status.
// Item validation against returnable quantities happens in the application
// layer, which has access to the order and sibling returns.
func NewProductReturn(
	returnNumber string,
	orderID uuid.UUID,
	orderNumber string,
	customerID, storeID uuid.UUID,
	returnType ReturnType,
	reason ReturnReason,
	reasonDetail string,
	requestedBy uuid.UUID,
) (*ProductReturn, error) {
	if returnNumber == "" {
		return nil, shared.NewDomainError("INVALID_RETURN_NUMBER", "Return number cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if returnType != "" && !returnType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RETURN_TYPE", fmt.Sprintf("Unknown return type %q", returnType))
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", fmt.Sprintf("Unknown return reason %q", reason))
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Requesting user ID cannot be empty")
	}

	pr := &ProductReturn{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(requestedBy),
		ReturnNumber:         returnNumber,
		OrderID:              orderID,
		OrderNumber:          orderNumber,
		CustomerID:           customerID,
		StoreID:              storeID,
		Type:                 returnType,
		Reason:               reason,
		ReasonDetail:         reasonDetail,
		Status:               ReturnStatusPending,
		Items:                make([]ProductReturnItem, 0),
		TotalReturnValue:     decimal.Zero,
		TotalRefundAmount:    decimal.Zero,
		ProcessingFee:        decimal.Zero,
		RequestedAt:          time.Now(),
	}

	pr.AddDomainEvent(NewReturnRequestedEvent(pr))

	return pr, nil
}

// AddItem appends a line item. Only allowed while pending.
func (r *ProductReturn) AddItem(
	orderItemID, productID uuid.UUID,
	batchID *uuid.UUID,
	productName, productSKU string,
	quantity decimal.Decimal,
	unitPrice valueobject.Money,
	condition ItemCondition,
	notes string,
) (*ProductReturnItem, error) {
	if r.Status != ReturnStatusPending {
		return nil, r.invalidTransition(r.Status)
	}

	for _, item := range r.Items {
		if item.OrderItemID == orderItemID {
			return nil, shared.NewDomainError("DUPLICATE_ITEM", "Order item already present in this return")
		}
	}

	item, err := NewProductReturnItem(r.ID, orderItemID, productID, batchID,
		productName, productSKU, quantity, unitPrice, condition)
	if err != nil {
		return nil, err
	}
	item.Notes = notes

	r.Items = append(r.Items, *item)
	r.recalculateTotals()
	r.Touch()

	return item, nil
}

// RecordQualityCheck records the inspection outcome and, optionally,
// adjusts the processing fee and the refundable amount. Allowed while
// pending or approved; may be repeated to correct a mistaken entry.
func (r *ProductReturn) RecordQualityCheck(passed bool, notes string, inspectorID uuid.UUID, fee, refundAmount *decimal.Decimal) error {
	if r.Status != ReturnStatusPending && r.Status != ReturnStatusApproved {
		return r.invalidTransition(r.Status)
	}
	if inspectorID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Inspector ID cannot be empty")
	}
	if err := r.adjustRefundTerms(fee, refundAmount); err != nil {
		return err
	}

	now := time.Now()
	r.QualityCheckPassed = &passed
	r.QualityCheckNotes = notes
	r.QualityCheckedBy = &inspectorID
	r.QualityCheckedAt = &now
	r.Touch()

	r.AddDomainEvent(NewReturnQualityCheckedEvent(r, passed))

	return nil
}

// adjustRefundTerms applies optional overrides of the processing fee and
// the refundable amount. The amount stays within [0, TotalReturnValue].
func (r *ProductReturn) adjustRefundTerms(fee, refundAmount *decimal.Decimal) error {
	if fee != nil {
		if fee.IsNegative() {
			return shared.NewDomainError("INVALID_FEE", "Processing fee cannot be negative")
		}
		r.ProcessingFee = *fee
	}
	if refundAmount != nil {
		if refundAmount.IsNegative() {
			return shared.NewDomainError("INVALID_REFUND_AMOUNT", "Refund amount cannot be negative")
		}
		if refundAmount.GreaterThan(r.TotalReturnValue) {
			return shared.NewDomainError("INVALID_REFUND_AMOUNT",
				fmt.Sprintf("Refund amount %s exceeds total return value %s",
					refundAmount.StringFixed(2), r.TotalReturnValue.StringFixed(2)))
		}
		r.TotalRefundAmount = *refundAmount
	}
	return nil
}

// MarkReceivedAtStore records physical receipt of the returned goods
func (r *ProductReturn) MarkReceivedAtStore() {
	r.ReceivedAtStore = true
	r.Touch()
}

// Approve transitions the return from pending to approved.
// The quality check must have passed; final overrides of the refundable
// amount and processing fee may be applied here.
func (r *ProductReturn) Approve(approverID uuid.UUID, refundAmount, fee *decimal.Decimal) error {
	if !r.Status.CanTransitionTo(ReturnStatusApproved) {
		return r.invalidTransition(ReturnStatusApproved)
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Approver ID cannot be empty")
	}
	if r.QualityCheckPassed == nil || !*r.QualityCheckPassed {
		return shared.NewDomainError("QUALITY_CHECK_REQUIRED", "Return cannot be approved before a passed quality check")
	}
	if err := r.adjustRefundTerms(fee, refundAmount); err != nil {
		return err
	}

	now := time.Now()
	r.Status = ReturnStatusApproved
	r.ApprovedBy = &approverID
	r.ApprovedAt = &now
	r.Touch()

	r.AddDomainEvent(NewReturnApprovedEvent(r))

	return nil
}

// Reject moves a return that has had no inventory or financial effect yet
// (pending or approved) to rejected. Reason required.
func (r *ProductReturn) Reject(rejecterID uuid.UUID, reason string) error {
	if !r.Status.CanTransitionTo(ReturnStatusRejected) {
		return r.invalidTransition(ReturnStatusRejected)
	}
	if rejecterID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Rejecter ID cannot be empty")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	r.Status = ReturnStatusRejected
	r.RejectedBy = &rejecterID
	r.RejectedAt = &now
	r.RejectionReason = reason
	r.Touch()

	r.AddDomainEvent(NewReturnRejectedEvent(r))

	return nil
}

// StartProcessing transitions the return from approved to processing.
// The application layer restores inventory in the same transaction.
func (r *ProductReturn) StartProcessing(processorID uuid.UUID) error {
	if !r.Status.CanTransitionTo(ReturnStatusProcessing) {
		return r.invalidTransition(ReturnStatusProcessing)
	}
	if processorID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Processor ID cannot be empty")
	}

	now := time.Now()
	r.Status = ReturnStatusProcessing
	r.ProcessedBy = &processorID
	r.ProcessedAt = &now
	r.Touch()

	r.AddDomainEvent(NewReturnProcessingEvent(r))

	return nil
}

// Complete transitions the return from processing to completed
func (r *ProductReturn) Complete() error {
	if !r.Status.CanTransitionTo(ReturnStatusCompleted) {
		return r.invalidTransition(ReturnStatusCompleted)
	}

	now := time.Now()
	r.Status = ReturnStatusCompleted
	r.CompletedAt = &now
	r.Touch()

	r.AddDomainEvent(NewReturnCompletedEvent(r))

	return nil
}

// MarkRefunded transitions the return from completed to refunded.
// Called by the refund side once completed refunds cover the full amount.
func (r *ProductReturn) MarkRefunded() error {
	if !r.Status.CanTransitionTo(ReturnStatusRefunded) {
		return r.invalidTransition(ReturnStatusRefunded)
	}

	now := time.Now()
	r.Status = ReturnStatusRefunded
	r.RefundedAt = &now
	r.Touch()

	r.AddDomainEvent(NewReturnRefundedEvent(r))

	return nil
}

// recalculateTotals recomputes the value totals from line items.
// TotalRefundAmount tracks TotalReturnValue until approval may lower it.
func (r *ProductReturn) recalculateTotals() {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.LineValue)
	}
	r.TotalReturnValue = total
	r.TotalRefundAmount = total
}

func (r *ProductReturn) invalidTransition(target ReturnStatus) error {
	return shared.NewDomainError("INVALID_RETURN_STATE",
		fmt.Sprintf("Return in %s status cannot move to %s", r.Status, target))
}

// GetTotalReturnValueMoney returns the total return value as Money
func (r *ProductReturn) GetTotalReturnValueMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(r.TotalReturnValue)
}

// GetTotalRefundAmountMoney returns the refundable amount as Money
func (r *ProductReturn) GetTotalRefundAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(r.TotalRefundAmount)
}

// ItemCount returns the number of line items
func (r *ProductReturn) ItemCount() int {
	return len(r.Items)
}

// IsPending returns true if the return awaits approval
func (r *ProductReturn) IsPending() bool {
	return r.Status == ReturnStatusPending
}

// IsApproved returns true if the return has been approved
func (r *ProductReturn) IsApproved() bool {
	return r.Status == ReturnStatusApproved
}

// IsCompleted returns true if inventory has been restored
func (r *ProductReturn) IsCompleted() bool {
	return r.Status == ReturnStatusCompleted
}

// IsRefundable reports whether refunds may be created against this return.
// Refunds open up once processing starts and close when the return is
// marked refunded.
func (r *ProductReturn) IsRefundable() bool {
	return r.Status == ReturnStatusProcessing || r.Status == ReturnStatusCompleted
}

// IsTerminal returns true if no further transitions are possible
func (r *ProductReturn) IsTerminal() bool {
	return r.Status.IsTerminal()
}

// GetItem returns the item with the given ID, or nil
func (r *ProductReturn) GetItem(itemID uuid.UUID) *ProductReturnItem {
	for idx := range r.Items {
		if r.Items[idx].ID == itemID {
			return &r.Items[idx]
		}
	}
	return nil
}

// TableName returns the table name for GORM
func (ProductReturn) TableName() string {
	return "product_returns"
}

// TableName returns the table name for GORM
func (ProductReturnItem) TableName() string {
	return "product_return_items"
}
