package schema

const (
	MejaAvailable   = "AVAILABLE"
	MejaReserved    = "RESERVED"
	MejaOccupied    = "OCCUPIED"
	MejaMaintenance = "MAINTENANCE"

	ReservasiPending   = "PENDING"
	ReservasiConfirmed = "CONFIRMED"
	ReservasiCancelled = "CANCELLED"
	ReservasiCompleted = "COMPLETED"
)

var (
	Customer = &Kind{
		Name:   "customer",
		Label:  "Customer",
		Prefix: "CUS",
		Fields: []Field{
			{Name: KeyField, Label: "ID Customer", Kind: Text},
			{Name: "name", Label: "Nama Customer", Kind: Text},
			{Name: "contact", Label: "Kontak Customer", Kind: Text},
		},
	}

	Karyawan = &Kind{
		Name:   "karyawan",
		Label:  "Karyawan",
		Prefix: "KAR",
		Fields: []Field{
			{Name: KeyField, Label: "ID Karyawan", Kind: Text},
			{Name: "name", Label: "Nama Karyawan", Kind: Text},
			{Name: "hire_date", Label: "Tanggal Masuk", Kind: Date},
			{Name: "salary", Label: "Gaji", Kind: Number},
		},
	}

	Meja = &Kind{
		Name:   "meja",
		Label:  "Meja",
		Prefix: "MJ",
		Fields: []Field{
			{Name: KeyField, Label: "ID Meja", Kind: Text},
			{Name: "number", Label: "Nomor Meja", Kind: Integer},
			{Name: "status", Label: "Status Meja", Kind: Enum,
				Options: []string{MejaAvailable, MejaReserved, MejaOccupied, MejaMaintenance},
				Default: MejaAvailable},
			{Name: "karyawan_id", Label: "ID Karyawan", Kind: ForeignKey, Ref: "karyawan"},
		},
	}

	Menu = &Kind{
		Name:   "menu",
		Label:  "Menu",
		Prefix: "MN",
		Fields: []Field{
			{Name: KeyField, Label: "ID Menu", Kind: Text},
			{Name: "name", Label: "Nama Menu", Kind: Text},
			{Name: "price", Label: "Harga Menu", Kind: Number},
			{Name: "category", Label: "Kategori", Kind: Enum,
				Options: []string{"Makanan", "Minuman"}, Default: "Makanan"},
		},
	}

	Pesanan = &Kind{
		Name:   "pesanan",
		Label:  "Pesanan",
		Prefix: "PES",
		Fields: []Field{
			{Name: KeyField, Label: "ID Pesanan", Kind: Text},
			{Name: "customer_id", Label: "ID Customer", Kind: ForeignKey, Ref: "customer", Required: true},
			{Name: "karyawan_id", Label: "ID Karyawan", Kind: ForeignKey, Ref: "karyawan"},
			{Name: "ordered_at", Label: "Waktu Pesanan", Kind: DateTime},
			{Name: "menu_id", Label: "ID Menu", Kind: ForeignKey, Ref: "menu", Required: true},
			{Name: "meja_id", Label: "ID Meja", Kind: ForeignKey, Ref: "meja", Required: true},
		},
	}

	Transaksi = &Kind{
		Name:   "transaksi",
		Label:  "Transaksi",
		Prefix: "TRX",
		Fields: []Field{
			{Name: KeyField, Label: "ID Transaksi", Kind: Text},
			{Name: "pesanan_id", Label: "ID Pesanan", Kind: ForeignKey, Ref: "pesanan", Required: true},
			{Name: "total", Label: "Total Harga", Kind: Number},
			{Name: "date", Label: "Tanggal Transaksi", Kind: Date},
			{Name: "karyawan_id", Label: "ID Karyawan", Kind: ForeignKey, Ref: "karyawan"},
		},
	}

	Pembayaran = &Kind{
		Name:   "pembayaran",
		Label:  "Pembayaran",
		Prefix: "PB",
		Fields: []Field{
			{Name: KeyField, Label: "ID Pembayaran", Kind: Text},
			{Name: "pesanan_id", Label: "ID Pesanan", Kind: ForeignKey, Ref: "pesanan", Required: true},
			{Name: "transaksi_id", Label: "ID Transaksi", Kind: ForeignKey, Ref: "transaksi"},
			{Name: "karyawan_id", Label: "ID Karyawan", Kind: ForeignKey, Ref: "karyawan"},
			{Name: "method", Label: "Metode Pembayaran", Kind: Enum,
				Options: []string{"Cash", "Credit Card", "Debit Card", "Digital Wallet"}, Default: "Cash"},
			{Name: "amount", Label: "Jumlah Bayar", Kind: Number},
			{Name: "paid_at", Label: "Tanggal Pembayaran", Kind: Date},
		},
	}

	Reservasi = &Kind{
		Name:   "reservasi",
		Label:  "Reservasi",
		Prefix: "RSV",
		Fields: []Field{
			{Name: KeyField, Label: "ID Reservasi", Kind: Text},
			{Name: "customer_id", Label: "ID Customer", Kind: ForeignKey, Ref: "customer", Required: true},
			{Name: "meja_id", Label: "ID Meja", Kind: ForeignKey, Ref: "meja", Required: true},
			{Name: "karyawan_id", Label: "ID Karyawan", Kind: ForeignKey, Ref: "karyawan"},
			{Name: "date", Label: "Tanggal Reservasi", Kind: Date},
			{Name: "start_time", Label: "Waktu Mulai", Kind: Clock},
			{Name: "end_time", Label: "Waktu Selesai", Kind: Clock},
			{Name: "status", Label: "Status Reservasi", Kind: Enum,
				Options: []string{ReservasiPending, ReservasiConfirmed, ReservasiCancelled, ReservasiCompleted},
				Default: ReservasiPending},
		},
	}
)

var registry = []*Kind{Customer, Karyawan, Meja, Menu, Pesanan, Transaksi, Pembayaran, Reservasi}
