package dto

// PeakRow is one PEAK A-U import row. Every field is a plain string and the
// zero value "" means the field was not resolved.
type PeakRow struct {
	ASeq             string `json:"A_seq" csv:"ลำดับที่*"`
	BDocDate         string `json:"B_doc_date" csv:"วันที่เอกสาร"`
	CReference       string `json:"C_reference" csv:"อ้างอิงถึง"`
	DVendorCode      string `json:"D_vendor_code" csv:"ผู้รับเงิน/คู่ค้า"`
	ETaxID13         string `json:"E_tax_id_13" csv:"เลขทะเบียน 13 หลัก"`
	FBranch5         string `json:"F_branch_5" csv:"เลขสาขา 5 หลัก"`
	GInvoiceNo       string `json:"G_invoice_no" csv:"เลขที่ใบกำกับฯ (ถ้ามี)"`
	HInvoiceDate     string `json:"H_invoice_date" csv:"วันที่ใบกำกับฯ (ถ้ามี)"`
	ITaxPurchaseDate string `json:"I_tax_purchase_date" csv:"วันที่บันทึกภาษีซื้อ (ถ้ามี)"`
	JPriceType       string `json:"J_price_type" csv:"ประเภทราคา"`
	KAccount         string `json:"K_account" csv:"บัญชี"`
	LDescription     string `json:"L_description" csv:"คำอธิบาย"`
	MQty             string `json:"M_qty" csv:"จำนวน"`
	NUnitPrice       string `json:"N_unit_price" csv:"ราคาต่อหน่วย"`
	OVatRate         string `json:"O_vat_rate" csv:"อัตราภาษี"`
	PWht             string `json:"P_wht" csv:"หัก ณ ที่จ่าย (ถ้ามี)"`
	QPaymentMethod   string `json:"Q_payment_method" csv:"ชำระโดย"`
	RPaidAmount      string `json:"R_paid_amount" csv:"จำนวนเงินที่ชำระ"`
	SPnd             string `json:"S_pnd" csv:"ภ.ง.ด. (ถ้ามี)"`
	TNote            string `json:"T_note" csv:"หมายเหตุ"`
	UGroup           string `json:"U_group" csv:"กลุ่มจัดประเภท"`

	// Transient processing metadata, never part of the A-U output.
	Status     string `json:"-" csv:"-"`
	SourceFile string `json:"-" csv:"-"`
}

// Column describes one A-U output column.
type Column struct {
	Key    string
	Header string
}

// Columns lists the output schema in A-U order.
var Columns = []Column{
	{"A_seq", "ลำดับที่*"},
	{"B_doc_date", "วันที่เอกสาร"},
	{"C_reference", "อ้างอิงถึง"},
	{"D_vendor_code", "ผู้รับเงิน/คู่ค้า"},
	{"E_tax_id_13", "เลขทะเบียน 13 หลัก"},
	{"F_branch_5", "เลขสาขา 5 หลัก"},
	{"G_invoice_no", "เลขที่ใบกำกับฯ (ถ้ามี)"},
	{"H_invoice_date", "วันที่ใบกำกับฯ (ถ้ามี)"},
	{"I_tax_purchase_date", "วันที่บันทึกภาษีซื้อ (ถ้ามี)"},
	{"J_price_type", "ประเภทราคา"},
	{"K_account", "บัญชี"},
	{"L_description", "คำอธิบาย"},
	{"M_qty", "จำนวน"},
	{"N_unit_price", "ราคาต่อหน่วย"},
	{"O_vat_rate", "อัตราภาษี"},
	{"P_wht", "หัก ณ ที่จ่าย (ถ้ามี)"},
	{"Q_payment_method", "ชำระโดย"},
	{"R_paid_amount", "จำนวนเงินที่ชำระ"},
	{"S_pnd", "ภ.ง.ด. (ถ้ามี)"},
	{"T_note", "หมายเหตุ"},
	{"U_group", "กลุ่มจัดประเภท"},
}

// Values returns the row's fields in Columns order.
func (r PeakRow) Values() []string {
	return []string{
		r.ASeq, r.BDocDate, r.CReference, r.DVendorCode, r.ETaxID13,
		r.FBranch5, r.GInvoiceNo, r.HInvoiceDate, r.ITaxPurchaseDate, r.JPriceType,
		r.KAccount, r.LDescription, r.MQty, r.NUnitPrice, r.OVatRate,
		r.PWht, r.QPaymentMethod, r.RPaidAmount, r.SPnd, r.TNote,
		r.UGroup,
	}
}

// RowFromValues builds a row from values in Columns order. Missing trailing
// values stay empty.
func RowFromValues(values []string) PeakRow {
	v := make([]string, len(Columns))
	copy(v, values)
	return PeakRow{
		ASeq: v[0], BDocDate: v[1], CReference: v[2], DVendorCode: v[3], ETaxID13: v[4],
		FBranch5: v[5], GInvoiceNo: v[6], HInvoiceDate: v[7], ITaxPurchaseDate: v[8], JPriceType: v[9],
		KAccount: v[10], LDescription: v[11], MQty: v[12], NUnitPrice: v[13], OVatRate: v[14],
		PWht: v[15], QPaymentMethod: v[16], RPaidAmount: v[17], SPnd: v[18], TNote: v[19],
		UGroup: v[20],
	}
}

// Row status values set by the processing service.
const (
	StatusOK          = "ok"
	StatusNeedsReview = "needs_review"
	StatusFailed      = "failed"
)
