package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

const trackInterval = 2 * time.Second

// Model defines the application state
type Model struct {
	mainMenu    list.Model
	menuList    list.Model
	cartTable   table.Model
	textInput   textinput.Model
	address     textinput.Model
	spinner     spinner.Model
	client      *ApiClient
	view        *SessionView
	order       *Order
	transcript  []ChatMessage
	loading     bool
	currentView string
	status      string
	error       string
}

// item represents a list item
type item struct {
	title, desc string
}

// FilterValue implements list.Item interface
func (i item) FilterValue() string { return i.title }

// Title implements list.Item interface
func (i item) Title() string { return i.title }

// Description implements list.Item interface
func (i item) Description() string { return i.desc }

// dishItem is a menu entry in the browse list
type dishItem struct {
	dish MenuItem
}

func (i dishItem) Title() string {
	return fmt.Sprintf("%s  $%s", i.dish.Name, i.dish.Price.StringFixed(2))
}
func (i dishItem) Description() string {
	return fmt.Sprintf("%s · %s", i.dish.Category, strings.Join(i.dish.Tags, ", "))
}
func (i dishItem) FilterValue() string { return i.dish.Name }

// Initialize the model
func initialModel(client *ApiClient) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: "Browse Menu", desc: "See the dishes and add them to your cart"},
		item{title: "Cart", desc: "Review your cart and check out"},
		item{title: "Track Order", desc: "Follow your order to your door"},
		item{title: "Chat", desc: "Ask the restaurant assistant"},
		item{title: "Exit", desc: "Exit the application"},
	}

	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "GourmetAI"

	menuList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	menuList.Title = "Menu"

	columns := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Item", Width: 28},
		{Title: "Qty", Width: 5},
		{Title: "Total", Width: 10},
	}
	cartTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	ti := textinput.New()
	ti.Placeholder = "Ask about the menu..."
	ti.CharLimit = 500
	ti.Width = 60

	addr := textinput.New()
	addr.Placeholder = "Delivery address"
	addr.CharLimit = 200
	addr.Width = 60

	return Model{
		mainMenu:    mainMenu,
		menuList:    menuList,
		cartTable:   cartTable,
		textInput:   ti,
		address:     addr,
		spinner:     s,
		client:      client,
		currentView: "main",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen, fetchSession(m.client))
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.mainMenu.SetSize(msg.Width-h, msg.Height-v)
		m.menuList.SetSize(msg.Width-h, msg.Height-v-2)
	case tea.KeyMsg:
		if m.currentView == "chat" {
			return m.updateChat(msg)
		}
		if m.currentView == "checkout" {
			return m.updateCheckout(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m.currentView = "main"
			m.error = ""
			return m, nil
		case "enter":
			switch m.currentView {
			case "main":
				if selected, ok := m.mainMenu.SelectedItem().(item); ok {
					return m.open(selected.title)
				}
			case "menu":
				if selected, ok := m.menuList.SelectedItem().(dishItem); ok {
					m.loading = true
					return m, addToCart(m.client, selected.dish)
				}
			}
		case "d":
			if m.currentView == "cart" {
				if row := m.cartTable.SelectedRow(); row != nil {
					return m, removeFromCart(m.client, row[0])
				}
			}
		case "c":
			if m.currentView == "cart" {
				return m, clearCart(m.client)
			}
		case "o":
			if m.currentView == "cart" {
				m.currentView = "checkout"
				m.address.SetValue("")
				m.address.Focus()
				return m, nil
			}
		}
	case menuMsg:
		listItems := make([]list.Item, len(msg.items))
		for i, dish := range msg.items {
			listItems[i] = dishItem{dish: dish}
		}
		m.menuList.SetItems(listItems)
		return m, nil
	case sessionMsg:
		m.loading = false
		m.view = msg.view
		m.cartTable.SetRows(cartRows(msg.view.Cart))
		if msg.view.Order != nil {
			m.order = msg.view.Order
		}
		if msg.message != "" {
			m.status = msg.message
		}
		return m, nil
	case orderMsg:
		m.loading = false
		m.order = msg.order
		if msg.message != "" {
			m.status = msg.message
			m.currentView = "track"
			return m, tea.Batch(fetchSession(m.client), trackTick())
		}
		return m, nil
	case trackMsg:
		if m.currentView != "track" || m.order == nil || m.order.Status == "delivered" {
			return m, nil
		}
		return m, tea.Batch(fetchOrder(m.client), trackTick())
	case chatMsg:
		m.loading = false
		m.transcript = msg.messages
		return m, nil
	case errorMsg:
		m.loading = false
		m.error = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentView {
	case "main":
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case "menu":
		m.menuList, cmd = m.menuList.Update(msg)
	case "cart":
		m.cartTable, cmd = m.cartTable.Update(msg)
	}
	return m, cmd
}

func (m Model) open(title string) (tea.Model, tea.Cmd) {
	m.error = ""
	m.status = ""
	switch title {
	case "Exit":
		return m, tea.Quit
	case "Browse Menu":
		m.currentView = "menu"
		return m, fetchMenu(m.client)
	case "Cart":
		m.currentView = "cart"
		return m, fetchSession(m.client)
	case "Track Order":
		m.currentView = "track"
		return m, tea.Batch(fetchOrder(m.client), trackTick())
	case "Chat":
		m.currentView = "chat"
		m.textInput.Focus()
		return m, fetchChat(m.client)
	}
	return m, nil
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.textInput.Blur()
		m.currentView = "main"
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.textInput.Value())
		if text == "" || m.loading {
			return m, nil
		}
		m.textInput.SetValue("")
		m.loading = true
		return m, sendChat(m.client, text)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) updateCheckout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.address.Blur()
		m.currentView = "cart"
		return m, nil
	case "enter":
		if m.loading {
			return m, nil
		}
		m.address.Blur()
		m.loading = true
		return m, checkout(m.client, DeliveryDetails{
			Address:       strings.TrimSpace(m.address.Value()),
			PaymentMethod: "card",
		})
	}

	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	switch m.currentView {
	case "main":
		return docStyle.Render(m.mainMenu.View())
	case "menu":
		help := "\nPress 'enter' to add the highlighted dish, 'esc' to go back\n"
		return docStyle.Render(m.menuList.View() + help + m.footer())
	case "cart":
		return docStyle.Render(titleStyle.Render("Your Cart") + "\n\n" + m.cartView() + m.footer())
	case "checkout":
		help := "\nPress 'enter' to place the order, 'esc' to return to the cart\n"
		return docStyle.Render(titleStyle.Render("Checkout") + "\n\n" + m.cartView() + "\n\n" + m.address.View() + help + m.footer())
	case "track":
		return docStyle.Render(titleStyle.Render("Order Tracking") + "\n\n" + orderView(m.order) + m.footer())
	case "chat":
		return docStyle.Render(titleStyle.Render("Restaurant Assistant") + "\n\n" + chatView(m.transcript) + "\n" + m.textInput.View() + "\n" + m.footer())
	default:
		return "Loading..."
	}
}

func (m Model) footer() string {
	out := "\n"
	if m.loading {
		out += m.spinner.View() + " working...\n"
	}
	if m.status != "" {
		out += successStyle.Render(m.status) + "\n"
	}
	if m.error != "" {
		out += errorStyle.Render(m.error) + "\n"
	}
	return out
}

func (m Model) cartView() string {
	if m.view == nil || len(m.view.Cart.Lines) == 0 {
		return "Your cart is empty\n\nPress 'esc' to go back"
	}

	out := m.cartTable.View() + "\n\n"
	out += infoStyle.Render("Total: $"+m.view.Cart.Total.StringFixed(2)) + "\n"
	if len(m.view.Recommendations) > 0 {
		out += "\nYou might also like:\n"
		for _, rec := range m.view.Recommendations {
			out += fmt.Sprintf("• %s ($%s)\n", rec.Name, rec.Price.StringFixed(2))
		}
	}
	out += "\nPress 'd' to remove the highlighted item, 'c' to clear, 'o' to check out, 'esc' to go back"
	return out
}

// Custom message types for the tea.Model
type menuMsg struct {
	items []MenuItem
}

type sessionMsg struct {
	view    *SessionView
	message string
}

type orderMsg struct {
	order   *Order
	message string
}

type chatMsg struct {
	messages []ChatMessage
}

type trackMsg struct{}

type errorMsg struct {
	err string
}

func fetchMenu(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		items, err := client.GetMenu("")
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching menu: %v", err)}
		}
		return menuMsg{items: items}
	}
}

func fetchSession(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		view, err := client.GetSession()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching session: %v", err)}
		}
		return sessionMsg{view: view}
	}
}

func addToCart(client *ApiClient, dish MenuItem) tea.Cmd {
	return func() tea.Msg {
		view, err := client.AddToCart(dish.ID, 1)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error adding to cart: %v", err)}
		}
		return sessionMsg{view: view, message: dish.Name + " added to cart"}
	}
}

func removeFromCart(client *ApiClient, id string) tea.Cmd {
	return func() tea.Msg {
		view, err := client.RemoveFromCart(id)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error removing item: %v", err)}
		}
		return sessionMsg{view: view}
	}
}

func clearCart(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		view, err := client.ClearCart()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error clearing cart: %v", err)}
		}
		return sessionMsg{view: view, message: "Cart cleared"}
	}
}

func checkout(client *ApiClient, details DeliveryDetails) tea.Cmd {
	return func() tea.Msg {
		order, err := client.Checkout(details)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error placing order: %v", err)}
		}
		return orderMsg{order: order, message: "Order placed"}
	}
}

func fetchOrder(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		order, err := client.GetCurrentOrder()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching order: %v", err)}
		}
		return orderMsg{order: order}
	}
}

func trackTick() tea.Cmd {
	return tea.Tick(trackInterval, func(time.Time) tea.Msg { return trackMsg{} })
}

func fetchChat(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		messages, err := client.GetChat()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching chat: %v", err)}
		}
		return chatMsg{messages: messages}
	}
}

func sendChat(client *ApiClient, text string) tea.Cmd {
	return func() tea.Msg {
		messages, err := client.SendChat(text)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error sending message: %v", err)}
		}
		return chatMsg{messages: messages}
	}
}

func cartRows(c Cart) []table.Row {
	rows := make([]table.Row, len(c.Lines))
	for i, line := range c.Lines {
		rows[i] = table.Row{
			line.Item.ID,
			line.Item.Name,
			fmt.Sprintf("%d", line.Quantity),
			"$" + line.LineTotal.StringFixed(2),
		}
	}
	return rows
}

// orderView renders the tracked order with a progress bar
func orderView(order *Order) string {
	if order == nil {
		return "No active order\n\nPress 'esc' to go back"
	}

	const width = 30
	filled := order.Progress * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	view := fmt.Sprintf("Order %s\n", order.ID)
	view += fmt.Sprintf("Placed: %s\n", order.CreatedAt.Format(time.RFC1123))
	view += fmt.Sprintf("Total: $%s\n\n", order.TotalAmount.StringFixed(2))
	view += infoStyle.Render(order.Label) + "\n"
	view += fmt.Sprintf("%s %d%%\n\n", bar, order.Progress)

	view += "Items:\n"
	for i, it := range order.Items {
		view += fmt.Sprintf("%d. item %s (x%d)\n", i+1, it.MenuItemID, it.Quantity)
		if it.SpecialInstructions != "" {
			view += fmt.Sprintf("   Notes: %s\n", it.SpecialInstructions)
		}
	}
	view += "\nPress 'esc' to go back"
	return view
}

func chatView(messages []ChatMessage) string {
	var b strings.Builder
	for _, msg := range messages {
		who := "Assistant"
		if msg.Sender == "user" {
			who = "You"
		}
		fmt.Fprintf(&b, "%s: %s\n\n", lipgloss.NewStyle().Bold(true).Render(who), msg.Content)
	}
	return b.String()
}

func main() {
	client := NewApiClient()
	if err := client.CheckHealth(); err != nil {
		fmt.Printf("GourmetAI API at %s is not available: %v\n", client.BaseURL, err)
		os.Exit(1)
	}
	if err := client.StartSession(); err != nil {
		fmt.Printf("Could not start a session: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(client))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
